package repository

import (
	"context"
	"errors"

	"github.com/dancloud/chat/internal/entity"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ConversationRepo is the repository for conversation operations
type ConversationRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewConversationRepo creates a new ConversationRepo
func NewConversationRepo(db *gorm.DB, rdb *redis.Client) *ConversationRepo {
	return &ConversationRepo{db: db, rdb: rdb}
}

// Create creates a new conversation
func (r *ConversationRepo) Create(ctx context.Context, conv *entity.Conversation) error {
	now := entity.NowUnixMilli()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	return r.db.WithContext(ctx).Create(conv).Error
}

// GetById gets conversation by Id
func (r *ConversationRepo) GetById(ctx context.Context, id int64) (*entity.Conversation, error) {
	var conv entity.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// GetByPair gets the conversation for an unordered user pair.
// Both orientations are matched so rows written before canonical
// ordering was enforced are still found.
func (r *ConversationRepo) GetByPair(ctx context.Context, userA, userB string) (*entity.Conversation, error) {
	var conv entity.Conversation
	err := r.db.WithContext(ctx).
		Where("(participant_1_id = ? AND participant_2_id = ?) OR (participant_1_id = ? AND participant_2_id = ?)",
			userA, userB, userB, userA).
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// GetOrCreate resolves the unordered pair {userA,userB} to a single
// conversation, creating it on first contact. Returns whether a row was
// created.
//
// The lookup-then-insert is only a fast path: the unique index on the
// canonical pair is the source of truth. A concurrent insert of the same
// pair loses with gorm.ErrDuplicatedKey and is resolved by re-querying.
func (r *ConversationRepo) GetOrCreate(ctx context.Context, userA, userB string) (*entity.Conversation, bool, error) {
	conv, err := r.GetByPair(ctx, userA, userB)
	if err != nil {
		return nil, false, err
	}
	if conv != nil {
		return conv, false, nil
	}

	p1, p2 := entity.CanonicalPair(userA, userB)
	conv = &entity.Conversation{
		Participant1Id: p1,
		Participant2Id: p2,
	}

	err = r.Create(ctx, conv)
	if err == nil {
		return conv, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, err
	}

	// Lost the race: another caller inserted the pair first
	conv, lookupErr := r.GetByPair(ctx, userA, userB)
	if lookupErr != nil {
		return nil, false, lookupErr
	}
	if conv == nil {
		return nil, false, err
	}
	return conv, false, nil
}

// ListByUser gets all conversations a user participates in, most recent
// activity first
func (r *ConversationRepo) ListByUser(ctx context.Context, userId string) ([]*entity.Conversation, error) {
	var convs []*entity.Conversation
	err := r.db.WithContext(ctx).
		Where("participant_1_id = ? OR participant_2_id = ?", userId, userId).
		Order("last_message_at DESC").
		Order("id DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

// ListIdsByUser gets ids of all conversations a user participates in,
// within a transaction
func (r *ConversationRepo) ListIdsByUser(ctx context.Context, tx *gorm.DB, userId string) ([]int64, error) {
	var ids []int64
	err := tx.WithContext(ctx).
		Model(&entity.Conversation{}).
		Where("participant_1_id = ? OR participant_2_id = ?", userId, userId).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SetLastMessage updates the denormalized last-message summary of a
// conversation within a transaction
func (r *ConversationRepo) SetLastMessage(ctx context.Context, tx *gorm.DB, convId, messageId, sentAt int64) error {
	return tx.WithContext(ctx).
		Model(&entity.Conversation{}).
		Where("id = ?", convId).
		Updates(map[string]interface{}{
			"last_message_id": messageId,
			"last_message_at": sentAt,
			"updated_at":      entity.NowUnixMilli(),
		}).Error
}

// ClearLastMessage nulls the last-message reference if it still points at
// messageId; a no-op otherwise
func (r *ConversationRepo) ClearLastMessage(ctx context.Context, tx *gorm.DB, convId, messageId int64) error {
	return tx.WithContext(ctx).
		Model(&entity.Conversation{}).
		Where("id = ? AND last_message_id = ?", convId, messageId).
		Updates(map[string]interface{}{
			"last_message_id": nil,
			"updated_at":      entity.NowUnixMilli(),
		}).Error
}

// DeleteByIds deletes conversations by ids within a transaction
func (r *ConversationRepo) DeleteByIds(ctx context.Context, tx *gorm.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Where("id IN ?", ids).Delete(&entity.Conversation{}).Error
}
