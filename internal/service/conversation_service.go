package service

import (
	"context"

	"github.com/dancloud/chat/internal/entity"
	"github.com/dancloud/chat/internal/policy"
	"github.com/dancloud/chat/internal/repository"
	"github.com/dancloud/chat/pkg/errcode"
	"github.com/mbeoliero/kit/log"
)

// ConversationService handles conversation-related business logic
type ConversationService struct {
	convRepo *repository.ConversationRepo
	userRepo *repository.UserRepo
	repos    *repository.Repositories
}

// NewConversationService creates a new ConversationService
func NewConversationService(repos *repository.Repositories) *ConversationService {
	return &ConversationService{
		convRepo: repos.Conversation,
		userRepo: repos.User,
		repos:    repos,
	}
}

// Resolve maps the unordered pair {userId, peerId} to its single
// conversation, creating it lazily on first contact. Repeat calls and
// swapped argument order return the same conversation.
func (s *ConversationService) Resolve(ctx context.Context, userId, peerId string) (*entity.ConversationInfo, error) {
	if peerId == "" {
		return nil, errcode.ErrInvalidParam
	}
	if peerId == userId {
		return nil, errcode.ErrSelfConversation
	}

	exists, err := s.userRepo.Exists(ctx, peerId)
	if err != nil {
		log.CtxError(ctx, "check peer exists failed: peer_id=%s, error=%v", peerId, err)
		return nil, errcode.ErrInternalServer
	}
	if !exists {
		return nil, errcode.ErrUserNotFound
	}

	conv, created, err := s.convRepo.GetOrCreate(ctx, userId, peerId)
	if err != nil {
		log.CtxError(ctx, "resolve conversation failed: user_id=%s, peer_id=%s, error=%v", userId, peerId, err)
		return nil, errcode.ErrConvCreateFailed
	}

	if created {
		log.CtxInfo(ctx, "conversation created: conversation_id=%d, user_id=%s, peer_id=%s", conv.Id, userId, peerId)
	}

	return conv.ToConversationInfo(userId), nil
}

// List gets all conversations for a user, most recent activity first
func (s *ConversationService) List(ctx context.Context, userId string) ([]*entity.ConversationInfo, error) {
	convs, err := s.convRepo.ListByUser(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "list conversations failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}

	result := make([]*entity.ConversationInfo, 0, len(convs))
	for _, conv := range convs {
		result = append(result, conv.ToConversationInfo(userId))
	}
	return result, nil
}

// Get gets a specific conversation for a user. A conversation the caller
// does not participate in is reported as not found.
func (s *ConversationService) Get(ctx context.Context, userId string, conversationId int64) (*entity.ConversationInfo, error) {
	conv, err := s.convRepo.GetById(ctx, conversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: conversation_id=%d, error=%v", conversationId, err)
		return nil, errcode.ErrInternalServer
	}
	if !policy.CanAccessConversation(userId, conv) {
		return nil, errcode.ErrConvNotFound
	}

	return conv.ToConversationInfo(userId), nil
}
