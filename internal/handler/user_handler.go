package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/dancloud/chat/internal/middleware"
	"github.com/dancloud/chat/internal/service"
	"github.com/dancloud/chat/pkg/errcode"
	"github.com/dancloud/chat/pkg/response"
)

// UserHandler handles user-related requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUserInfo handles get user info request. Without a user_id query the
// caller's own profile is returned.
func (h *UserHandler) GetUserInfo(ctx context.Context, c *app.RequestContext) {
	callerId := middleware.GetUserId(c)
	if callerId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	userId := c.Query("user_id")
	if userId == "" {
		userId = callerId
	}

	userInfo, err := h.userService.GetById(ctx, userId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, userInfo)
}

// UpdateUserInfo handles update user info request
func (h *UserHandler) UpdateUserInfo(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req service.UpdateUserRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	userInfo, err := h.userService.Update(ctx, userId, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, userInfo)
}

// DeleteUser handles account deletion for the caller
func (h *UserHandler) DeleteUser(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	if err := h.userService.Delete(ctx, userId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}
