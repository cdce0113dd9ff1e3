package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dancloud/chat/internal/entity"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRepos opens an isolated in-memory database per test.
// TranslateError is on so unique violations surface as
// gorm.ErrDuplicatedKey, same as the mysql setup.
func newTestRepos(t *testing.T) *Repositories {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	repos := NewRepositoriesWithDB(db, nil)
	require.NoError(t, repos.AutoMigrate())
	return repos
}

func createTestUser(t *testing.T, repos *Repositories, id string) {
	t.Helper()
	require.NoError(t, repos.User.Create(context.Background(), &entity.User{
		Id:       id,
		Nickname: id,
		Password: "x",
	}))
}

func TestGetOrCreate_Idempotent(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	conv1, created, err := repos.Conversation.GetOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "alice", conv1.Participant1Id)
	assert.Equal(t, "bob", conv1.Participant2Id)

	conv2, created, err := repos.Conversation.GetOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, conv1.Id, conv2.Id)
}

func TestGetOrCreate_OrderIndependent(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	conv1, created, err := repos.Conversation.GetOrCreate(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, created)

	// Participants are stored canonically regardless of argument order
	assert.Equal(t, "alice", conv1.Participant1Id)
	assert.Equal(t, "bob", conv1.Participant2Id)

	conv2, created, err := repos.Conversation.GetOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, conv1.Id, conv2.Id)
}

func TestGetByPair_ReversedLegacyRow(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	// A row written before canonical ordering was enforced
	legacy := &entity.Conversation{
		Participant1Id: "zed",
		Participant2Id: "amy",
	}
	require.NoError(t, repos.Conversation.Create(ctx, legacy))

	conv, err := repos.Conversation.GetByPair(ctx, "amy", "zed")
	require.NoError(t, err)
	require.NotNil(t, conv)
	assert.Equal(t, legacy.Id, conv.Id)

	// The resolver reuses the legacy row instead of inserting a duplicate
	resolved, created, err := repos.Conversation.GetOrCreate(ctx, "amy", "zed")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, legacy.Id, resolved.Id)
}

func TestCreate_DuplicatePairRejected(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Conversation.Create(ctx, &entity.Conversation{
		Participant1Id: "alice",
		Participant2Id: "bob",
	}))

	err := repos.Conversation.Create(ctx, &entity.Conversation{
		Participant1Id: "alice",
		Participant2Id: "bob",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestCreate_SelfPairRejected(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	err := repos.Conversation.Create(ctx, &entity.Conversation{
		Participant1Id: "alice",
		Participant2Id: "alice",
	})
	assert.Error(t, err)
}

func TestListByUser_OrderedByActivity(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	convAB, _, err := repos.Conversation.GetOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	convAC, _, err := repos.Conversation.GetOrCreate(ctx, "alice", "carol")
	require.NoError(t, err)

	// Bump the older conversation so it becomes the most recent
	require.NoError(t, repos.Conversation.SetLastMessage(ctx, repos.DB, convAB.Id, 1, entity.NowUnixMilli()+1000))

	convs, err := repos.Conversation.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, convAB.Id, convs[0].Id)
	assert.Equal(t, convAC.Id, convs[1].Id)

	// Bob only sees his own conversation
	convs, err = repos.Conversation.ListByUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, convAB.Id, convs[0].Id)
}

func TestSetLastMessage(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	conv, _, err := repos.Conversation.GetOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Nil(t, conv.LastMessageId)

	sentAt := entity.NowUnixMilli()
	require.NoError(t, repos.Conversation.SetLastMessage(ctx, repos.DB, conv.Id, 99, sentAt))

	got, err := repos.Conversation.GetById(ctx, conv.Id)
	require.NoError(t, err)
	require.NotNil(t, got.LastMessageId)
	assert.Equal(t, int64(99), *got.LastMessageId)
	assert.Equal(t, sentAt, got.LastMessageAt)
	assert.GreaterOrEqual(t, got.UpdatedAt, conv.UpdatedAt)
}

func TestClearLastMessage_OnlyWhenCurrent(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	conv, _, err := repos.Conversation.GetOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)

	sentAt := entity.NowUnixMilli()
	require.NoError(t, repos.Conversation.SetLastMessage(ctx, repos.DB, conv.Id, 99, sentAt))

	// Clearing a stale reference is a no-op
	require.NoError(t, repos.Conversation.ClearLastMessage(ctx, repos.DB, conv.Id, 42))
	got, err := repos.Conversation.GetById(ctx, conv.Id)
	require.NoError(t, err)
	require.NotNil(t, got.LastMessageId)
	assert.Equal(t, int64(99), *got.LastMessageId)

	// Clearing the current reference nulls the pointer but keeps the
	// activity timestamp
	require.NoError(t, repos.Conversation.ClearLastMessage(ctx, repos.DB, conv.Id, 99))
	got, err = repos.Conversation.GetById(ctx, conv.Id)
	require.NoError(t, err)
	assert.Nil(t, got.LastMessageId)
	assert.Equal(t, sentAt, got.LastMessageAt)
}

func TestGetById_NotFound(t *testing.T) {
	repos := newTestRepos(t)

	conv, err := repos.Conversation.GetById(context.Background(), 12345)
	require.NoError(t, err)
	assert.Nil(t, conv)
}
