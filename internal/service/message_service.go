package service

import (
	"context"

	"github.com/dancloud/chat/internal/entity"
	"github.com/dancloud/chat/internal/policy"
	"github.com/dancloud/chat/internal/repository"
	"github.com/dancloud/chat/pkg/constant"
	"github.com/dancloud/chat/pkg/errcode"
	"github.com/mbeoliero/kit/log"
	"gorm.io/gorm"
)

// MessageNotifier pushes message events to connected clients
type MessageNotifier interface {
	NotifyNewMessage(msg *entity.Message, conv *entity.Conversation)
}

// MessageService handles message-related business logic
type MessageService struct {
	msgRepo  *repository.MessageRepo
	convRepo *repository.ConversationRepo
	repos    *repository.Repositories
	notifier MessageNotifier
}

// NewMessageService creates a new MessageService
func NewMessageService(repos *repository.Repositories) *MessageService {
	return &MessageService{
		msgRepo:  repos.Message,
		convRepo: repos.Conversation,
		repos:    repos,
	}
}

// SetNotifier sets the message notifier
func (s *MessageService) SetNotifier(notifier MessageNotifier) {
	s.notifier = notifier
}

// SendMessageRequest represents send message request
type SendMessageRequest struct {
	ConversationId int64  `json:"conversation_id"`
	Content        string `json:"content"`
	MessageType    string `json:"message_type,omitempty"`
}

// Send inserts a message and refreshes the owning conversation's
// last-message summary in the same transaction. If either write fails the
// whole transaction rolls back; a reader never observes the message
// without the updated summary.
func (s *MessageService) Send(ctx context.Context, senderId string, req *SendMessageRequest) (*entity.Message, error) {
	if req.ConversationId == 0 {
		return nil, errcode.ErrInvalidParam
	}
	if req.Content == "" {
		return nil, errcode.ErrEmptyContent
	}
	msgType := req.MessageType
	if msgType == "" {
		msgType = constant.MessageTypeText
	}
	if !constant.IsValidMessageType(msgType) {
		return nil, errcode.ErrBadMessageType
	}

	conv, err := s.convRepo.GetById(ctx, req.ConversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: conversation_id=%d, error=%v", req.ConversationId, err)
		return nil, errcode.ErrInternalServer
	}
	if !policy.CanSendAs(senderId, senderId, conv) {
		return nil, errcode.ErrConvNotFound
	}

	msg := &entity.Message{
		ConversationId: conv.Id,
		SenderId:       senderId,
		Content:        req.Content,
		MessageType:    msgType,
	}

	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.msgRepo.Create(ctx, tx, msg); err != nil {
			return err
		}
		return s.convRepo.SetLastMessage(ctx, tx, conv.Id, msg.Id, msg.CreatedAt)
	})
	if err != nil {
		log.CtxError(ctx, "send message failed: conversation_id=%d, sender_id=%s, error=%v", conv.Id, senderId, err)
		return nil, errcode.ErrSendFailed
	}

	if s.notifier != nil {
		s.notifier.NotifyNewMessage(msg, conv)
	}

	log.CtxInfo(ctx, "message sent: conversation_id=%d, message_id=%d, sender_id=%s", conv.Id, msg.Id, senderId)
	return msg, nil
}

// List gets messages of a conversation in creation order. A caller who is
// not a participant gets zero rows, whether or not the conversation
// exists.
func (s *MessageService) List(ctx context.Context, userId string, conversationId int64, limit int, beforeId int64) ([]*entity.Message, error) {
	conv, err := s.convRepo.GetById(ctx, conversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: conversation_id=%d, error=%v", conversationId, err)
		return nil, errcode.ErrInternalServer
	}
	if !policy.CanReadMessages(userId, conv) {
		return []*entity.Message{}, nil
	}

	messages, err := s.msgRepo.ListByConversation(ctx, conversationId, limit, beforeId)
	if err != nil {
		log.CtxError(ctx, "list messages failed: conversation_id=%d, error=%v", conversationId, err)
		return nil, errcode.ErrInternalServer
	}
	return messages, nil
}

// MarkRead flags the peer's unread messages in a conversation as read.
// Returns the number of messages affected; a non-participant affects
// nothing.
func (s *MessageService) MarkRead(ctx context.Context, userId string, conversationId int64) (int64, error) {
	conv, err := s.convRepo.GetById(ctx, conversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: conversation_id=%d, error=%v", conversationId, err)
		return 0, errcode.ErrInternalServer
	}
	if !policy.CanAccessConversation(userId, conv) {
		return 0, nil
	}

	affected, err := s.msgRepo.MarkConversationRead(ctx, conversationId, userId)
	if err != nil {
		log.CtxError(ctx, "mark read failed: conversation_id=%d, user_id=%s, error=%v", conversationId, userId, err)
		return 0, errcode.ErrInternalServer
	}
	return affected, nil
}

// Edit replaces a message's content. Allowed for the sender and for any
// participant of the owning conversation; everyone else sees not found.
func (s *MessageService) Edit(ctx context.Context, userId string, messageId int64, content string) (*entity.Message, error) {
	if content == "" {
		return nil, errcode.ErrEmptyContent
	}

	msg, err := s.msgRepo.GetById(ctx, messageId)
	if err != nil {
		log.CtxError(ctx, "get message failed: message_id=%d, error=%v", messageId, err)
		return nil, errcode.ErrInternalServer
	}
	if msg == nil {
		return nil, errcode.ErrMessageNotFound
	}

	conv, err := s.convRepo.GetById(ctx, msg.ConversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: conversation_id=%d, error=%v", msg.ConversationId, err)
		return nil, errcode.ErrInternalServer
	}
	if !policy.CanUpdateMessage(userId, msg, conv) {
		return nil, errcode.ErrMessageNotFound
	}

	if _, err := s.msgRepo.UpdateContent(ctx, messageId, content); err != nil {
		log.CtxError(ctx, "update message failed: message_id=%d, error=%v", messageId, err)
		return nil, errcode.ErrInternalServer
	}

	msg.Content = content
	return msg, nil
}

// Delete removes a message. Only the sender may delete; if the message is
// the conversation's current last message the reference is cleared rather
// than blocking the delete.
func (s *MessageService) Delete(ctx context.Context, userId string, messageId int64) error {
	msg, err := s.msgRepo.GetById(ctx, messageId)
	if err != nil {
		log.CtxError(ctx, "get message failed: message_id=%d, error=%v", messageId, err)
		return errcode.ErrInternalServer
	}
	if msg == nil {
		return errcode.ErrMessageNotFound
	}
	if !policy.CanDeleteMessage(userId, msg) {
		return errcode.ErrMessageNotFound
	}

	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.convRepo.ClearLastMessage(ctx, tx, msg.ConversationId, msg.Id); err != nil {
			return err
		}
		return s.msgRepo.Delete(ctx, tx, msg.Id)
	})
	if err != nil {
		log.CtxError(ctx, "delete message failed: message_id=%d, error=%v", messageId, err)
		return errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "message deleted: conversation_id=%d, message_id=%d, sender_id=%s", msg.ConversationId, msg.Id, userId)
	return nil
}
