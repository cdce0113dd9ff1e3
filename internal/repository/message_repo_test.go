package repository

import (
	"context"
	"testing"

	"github.com/dancloud/chat/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMessages(t *testing.T, repos *Repositories, convId int64, senders ...string) []*entity.Message {
	t.Helper()
	msgs := make([]*entity.Message, 0, len(senders))
	for _, sender := range senders {
		msg := &entity.Message{
			ConversationId: convId,
			SenderId:       sender,
			Content:        "hello",
			MessageType:    "text",
		}
		require.NoError(t, repos.Message.Create(context.Background(), repos.DB, msg))
		msgs = append(msgs, msg)
	}
	return msgs
}

func TestListByConversation_CreationOrder(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	conv, _, err := repos.Conversation.GetOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	seeded := seedMessages(t, repos, conv.Id, "alice", "bob", "alice")

	msgs, err := repos.Message.ListByConversation(ctx, conv.Id, 0, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	for i, msg := range msgs {
		assert.Equal(t, seeded[i].Id, msg.Id)
	}

	// Limit caps the page, oldest first
	msgs, err = repos.Message.ListByConversation(ctx, conv.Id, 2, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, seeded[0].Id, msgs[0].Id)

	// beforeId pages backwards
	msgs, err = repos.Message.ListByConversation(ctx, conv.Id, 0, seeded[2].Id)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, seeded[1].Id, msgs[1].Id)
}

func TestMarkConversationRead(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	conv, _, err := repos.Conversation.GetOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	seedMessages(t, repos, conv.Id, "alice", "alice", "bob")

	// Bob reads: only alice's two messages flip
	affected, err := repos.Message.MarkConversationRead(ctx, conv.Id, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	// Re-reading is a no-op
	affected, err = repos.Message.MarkConversationRead(ctx, conv.Id, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	// Alice still has bob's message unread
	affected, err = repos.Message.MarkConversationRead(ctx, conv.Id, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestDeleteByConversationIds(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	convAB, _, err := repos.Conversation.GetOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	convAC, _, err := repos.Conversation.GetOrCreate(ctx, "alice", "carol")
	require.NoError(t, err)
	seedMessages(t, repos, convAB.Id, "alice", "bob")
	seedMessages(t, repos, convAC.Id, "carol")

	require.NoError(t, repos.Message.DeleteByConversationIds(ctx, repos.DB, []int64{convAB.Id}))

	count, err := repos.Message.CountByConversation(ctx, convAB.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = repos.Message.CountByConversation(ctx, convAC.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
