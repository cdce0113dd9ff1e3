package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/dancloud/chat/internal/entity"
	"github.com/dancloud/chat/internal/middleware"
	"github.com/dancloud/chat/internal/service"
	"github.com/dancloud/chat/pkg/errcode"
	"github.com/dancloud/chat/pkg/response"
)

// MessageHandler handles message-related requests
type MessageHandler struct {
	msgService *service.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(msgService *service.MessageService) *MessageHandler {
	return &MessageHandler{msgService: msgService}
}

// Send handles send message request
func (h *MessageHandler) Send(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req service.SendMessageRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	msg, err := h.msgService.Send(ctx, userId, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, msg.ToMessageInfo())
}

// List handles list messages request
func (h *MessageHandler) List(ctx context.Context, c *app.RequestContext) {
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

	limit, _ := strconv.Atoi(c.Query("limit"))
	beforeId, _ := strconv.ParseInt(c.Query("before_id"), 10, 64)

	messages, err := h.msgService.List(ctx, userId, conversationId, limit, beforeId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	msgInfos := make([]*entity.MessageInfo, 0, len(messages))
	for _, msg := range messages {
		msgInfos = append(msgInfos, msg.ToMessageInfo())
	}

	response.Success(ctx, c, map[string]interface{}{
		"messages": msgInfos,
	})
}

// MarkReadRequest represents mark read request
type MarkReadRequest struct {
	ConversationId int64 `json:"conversation_id"`
}

// MarkRead handles mark conversation read request
func (h *MessageHandler) MarkRead(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req MarkReadRequest
	if err := c.BindAndValidate(&req); err != nil || req.ConversationId <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	affected, err := h.msgService.MarkRead(ctx, userId, req.ConversationId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"read_count": affected,
	})
}

// UpdateMessageRequest represents update message request
type UpdateMessageRequest struct {
	MessageId int64  `json:"message_id"`
	Content   string `json:"content"`
}

// Update handles update message request
func (h *MessageHandler) Update(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req UpdateMessageRequest
	if err := c.BindAndValidate(&req); err != nil || req.MessageId <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	msg, err := h.msgService.Edit(ctx, userId, req.MessageId, req.Content)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, msg.ToMessageInfo())
}

// DeleteMessageRequest represents delete message request
type DeleteMessageRequest struct {
	MessageId int64 `json:"message_id"`
}

// Delete handles delete message request
func (h *MessageHandler) Delete(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req DeleteMessageRequest
	if err := c.BindAndValidate(&req); err != nil || req.MessageId <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.msgService.Delete(ctx, userId, req.MessageId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}
