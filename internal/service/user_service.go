package service

import (
	"context"

	"github.com/dancloud/chat/internal/entity"
	"github.com/dancloud/chat/internal/repository"
	"github.com/dancloud/chat/pkg/errcode"
	"github.com/dancloud/chat/pkg/jwt"
	"github.com/mbeoliero/kit/log"
	"gorm.io/gorm"
)

// UserService handles user-related business logic
type UserService struct {
	userRepo   *repository.UserRepo
	repos      *repository.Repositories
	tokenStore *jwt.TokenStore
}

// NewUserService creates a new UserService
func NewUserService(repos *repository.Repositories, tokenStore *jwt.TokenStore) *UserService {
	return &UserService{
		userRepo:   repos.User,
		repos:      repos,
		tokenStore: tokenStore,
	}
}

// GetById gets user info by id
func (s *UserService) GetById(ctx context.Context, userId string) (*entity.UserInfo, error) {
	user, err := s.userRepo.GetById(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "get user failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}
	if user == nil {
		return nil, errcode.ErrUserNotFound
	}
	return user.ToUserInfo(), nil
}

// UpdateUserRequest represents update user request
type UpdateUserRequest struct {
	Nickname string  `json:"nickname,omitempty"`
	Avatar   string  `json:"avatar,omitempty"`
	Extra    *string `json:"extra,omitempty"`
}

// Update updates the caller's profile fields
func (s *UserService) Update(ctx context.Context, userId string, req *UpdateUserRequest) (*entity.UserInfo, error) {
	user, err := s.userRepo.GetById(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "get user failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}
	if user == nil {
		return nil, errcode.ErrUserNotFound
	}

	updates := make(map[string]interface{})
	if req.Nickname != "" {
		updates["nickname"] = req.Nickname
		user.Nickname = req.Nickname
	}
	if req.Avatar != "" {
		updates["avatar"] = req.Avatar
		user.Avatar = req.Avatar
	}
	if req.Extra != nil {
		updates["extra"] = req.Extra
		user.Extra = req.Extra
	}
	if len(updates) == 0 {
		return user.ToUserInfo(), nil
	}
	updates["updated_at"] = entity.NowUnixMilli()

	if err := s.userRepo.Update(ctx, userId, updates); err != nil {
		log.CtxError(ctx, "update user failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}
	return user.ToUserInfo(), nil
}

// Delete removes the user together with every conversation the user
// participates in and all messages inside those conversations, in one
// transaction. Active tokens are revoked afterwards.
func (s *UserService) Delete(ctx context.Context, userId string) error {
	user, err := s.userRepo.GetById(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "get user failed: user_id=%s, error=%v", userId, err)
		return errcode.ErrInternalServer
	}
	if user == nil {
		return errcode.ErrUserNotFound
	}

	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		convIds, err := s.repos.Conversation.ListIdsByUser(ctx, tx, userId)
		if err != nil {
			return err
		}
		if len(convIds) > 0 {
			if err := s.repos.Message.DeleteByConversationIds(ctx, tx, convIds); err != nil {
				return err
			}
			if err := s.repos.Conversation.DeleteByIds(ctx, tx, convIds); err != nil {
				return err
			}
		}
		return s.userRepo.Delete(ctx, tx, userId)
	})
	if err != nil {
		log.CtxError(ctx, "delete user failed: user_id=%s, error=%v", userId, err)
		return errcode.ErrInternalServer
	}

	if s.tokenStore != nil {
		if err := s.tokenStore.ForceLogoutUser(ctx, userId); err != nil {
			log.CtxWarn(ctx, "revoke tokens failed: user_id=%s, error=%v", userId, err)
		}
	}

	log.CtxInfo(ctx, "user deleted: user_id=%s", userId)
	return nil
}
