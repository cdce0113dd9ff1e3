package repository

import (
	"context"
	"errors"

	"github.com/dancloud/chat/internal/entity"
	"github.com/dancloud/chat/pkg/constant"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// MessageRepo is the repository for message operations
type MessageRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewMessageRepo creates a new MessageRepo
func NewMessageRepo(db *gorm.DB, rdb *redis.Client) *MessageRepo {
	return &MessageRepo{db: db, rdb: rdb}
}

// Create creates a new message within a transaction
func (r *MessageRepo) Create(ctx context.Context, tx *gorm.DB, msg *entity.Message) error {
	now := entity.NowUnixMilli()
	msg.CreatedAt = now
	msg.UpdatedAt = now
	return tx.WithContext(ctx).Create(msg).Error
}

// GetById gets message by Id
func (r *MessageRepo) GetById(ctx context.Context, id int64) (*entity.Message, error) {
	var msg entity.Message
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// ListByConversation gets messages of a conversation in creation order.
// limit is capped at MaxMessagePageSize; beforeId > 0 pages backwards.
func (r *MessageRepo) ListByConversation(ctx context.Context, convId int64, limit int, beforeId int64) ([]*entity.Message, error) {
	if limit <= 0 || limit > constant.MaxMessagePageSize {
		limit = constant.MaxMessagePageSize
	}

	q := r.db.WithContext(ctx).
		Where("conversation_id = ?", convId).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit)

	if beforeId > 0 {
		q = q.Where("id < ?", beforeId)
	}

	var messages []*entity.Message
	if err := q.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkConversationRead flags all unread messages sent to readerId in a
// conversation as read. Returns the number of rows affected.
func (r *MessageRepo) MarkConversationRead(ctx context.Context, convId int64, readerId string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", convId, readerId, false).
		Updates(map[string]interface{}{
			"is_read":    true,
			"updated_at": entity.NowUnixMilli(),
		})
	return result.RowsAffected, result.Error
}

// UpdateContent replaces a message's content. Returns rows affected.
func (r *MessageRepo) UpdateContent(ctx context.Context, id int64, content string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":    content,
			"updated_at": entity.NowUnixMilli(),
		})
	return result.RowsAffected, result.Error
}

// Delete deletes a message within a transaction
func (r *MessageRepo) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	return tx.WithContext(ctx).Where("id = ?", id).Delete(&entity.Message{}).Error
}

// DeleteByConversationIds deletes all messages of the given conversations
// within a transaction
func (r *MessageRepo) DeleteByConversationIds(ctx context.Context, tx *gorm.DB, convIds []int64) error {
	if len(convIds) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Where("conversation_id IN ?", convIds).Delete(&entity.Message{}).Error
}

// CountByConversation counts messages in a conversation
func (r *MessageRepo) CountByConversation(ctx context.Context, convId int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Where("conversation_id = ?", convId).
		Count(&count).Error
	return count, err
}
