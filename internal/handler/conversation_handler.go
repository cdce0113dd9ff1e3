package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/dancloud/chat/internal/middleware"
	"github.com/dancloud/chat/internal/service"
	"github.com/dancloud/chat/pkg/errcode"
	"github.com/dancloud/chat/pkg/response"
)

// ConversationHandler handles conversation-related requests
type ConversationHandler struct {
	convService *service.ConversationService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(convService *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{convService: convService}
}

// ResolveRequest represents resolve conversation request
type ResolveRequest struct {
	PeerId string `json:"peer_id"`
}

// Resolve handles resolve conversation request: returns the conversation
// between the caller and the peer, creating it if it does not exist yet.
func (h *ConversationHandler) Resolve(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req ResolveRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	convInfo, err := h.convService.Resolve(ctx, userId, req.PeerId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, convInfo)
}

// List handles list conversations request
func (h *ConversationHandler) List(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	convInfos, err := h.convService.List(ctx, userId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"conversations": convInfos,
	})
}

// GetInfo handles get conversation info request
func (h *ConversationHandler) GetInfo(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	conversationId, err := strconv.ParseInt(c.Query("conversation_id"), 10, 64)
	if err != nil || conversationId <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	convInfo, err := h.convService.Get(ctx, userId, conversationId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, convInfo)
}
