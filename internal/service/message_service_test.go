package service

import (
	"context"
	"testing"

	"github.com/dancloud/chat/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_UpdatesConversationSummary(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMessageService(repos)
	ctx := context.Background()

	createUser(t, repos, "alice")
	createUser(t, repos, "bob")
	conv := resolveConv(t, repos, "alice", "bob")

	msg, err := svc.Send(ctx, "alice", &SendMessageRequest{
		ConversationId: conv.Id,
		Content:        "hello bob",
	})
	require.NoError(t, err)
	assert.Equal(t, "text", msg.MessageType)
	assert.NotZero(t, msg.Id)

	// The conversation summary points at the new message
	got, err := repos.Conversation.GetById(ctx, conv.Id)
	require.NoError(t, err)
	require.NotNil(t, got.LastMessageId)
	assert.Equal(t, msg.Id, *got.LastMessageId)
	assert.Equal(t, msg.CreatedAt, got.LastMessageAt)

	// A second message overwrites the summary
	msg2, err := svc.Send(ctx, "bob", &SendMessageRequest{
		ConversationId: conv.Id,
		Content:        "hi alice",
	})
	require.NoError(t, err)

	got, err = repos.Conversation.GetById(ctx, conv.Id)
	require.NoError(t, err)
	assert.Equal(t, msg2.Id, *got.LastMessageId)
	assert.Equal(t, msg2.CreatedAt, got.LastMessageAt)
}

func TestSend_Validation(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMessageService(repos)
	ctx := context.Background()

	createUser(t, repos, "alice")
	createUser(t, repos, "bob")
	conv := resolveConv(t, repos, "alice", "bob")

	_, err := svc.Send(ctx, "alice", &SendMessageRequest{ConversationId: conv.Id})
	assert.Equal(t, errcode.ErrEmptyContent, err)

	_, err = svc.Send(ctx, "alice", &SendMessageRequest{
		ConversationId: conv.Id,
		Content:        "x",
		MessageType:    "video",
	})
	assert.Equal(t, errcode.ErrBadMessageType, err)

	_, err = svc.Send(ctx, "alice", &SendMessageRequest{Content: "x"})
	assert.Equal(t, errcode.ErrInvalidParam, err)
}

func TestSend_OutsiderSeesNotFound(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMessageService(repos)
	ctx := context.Background()

	createUser(t, repos, "alice")
	createUser(t, repos, "bob")
	createUser(t, repos, "mallory")
	conv := resolveConv(t, repos, "alice", "bob")

	// A non-participant gets not-found, indistinguishable from a
	// missing conversation
	_, err := svc.Send(ctx, "mallory", &SendMessageRequest{
		ConversationId: conv.Id,
		Content:        "let me in",
	})
	assert.Equal(t, errcode.ErrConvNotFound, err)

	_, err = svc.Send(ctx, "alice", &SendMessageRequest{
		ConversationId: 99999,
		Content:        "hello?",
	})
	assert.Equal(t, errcode.ErrConvNotFound, err)
}

func TestSend_NotifiesBothParticipants(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMessageService(repos)
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)
	ctx := context.Background()

	createUser(t, repos, "alice")
	createUser(t, repos, "bob")
	conv := resolveConv(t, repos, "alice", "bob")

	msg, err := svc.Send(ctx, "alice", &SendMessageRequest{
		ConversationId: conv.Id,
		Content:        "ping",
	})
	require.NoError(t, err)

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, msg.Id, notifier.messages[0].Id)
	assert.Equal(t, conv.Id, notifier.conversations[0].Id)
}

func TestList_OutsiderGetsZeroRows(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMessageService(repos)
	ctx := context.Background()

	createUser(t, repos, "alice")
	createUser(t, repos, "bob")
	conv := resolveConv(t, repos, "alice", "bob")

	_, err := svc.Send(ctx, "alice", &SendMessageRequest{ConversationId: conv.Id, Content: "one"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, "bob", &SendMessageRequest{ConversationId: conv.Id, Content: "two"})
	require.NoError(t, err)

	msgs, err := svc.List(ctx, "alice", conv.Id, 0, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	// Outsider: empty result, no error hinting the row exists
	msgs, err = svc.List(ctx, "mallory", conv.Id, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	// Missing conversation looks the same
	msgs, err = svc.List(ctx, "alice", 99999, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMarkRead_OutsiderAffectsNothing(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMessageService(repos)
	ctx := context.Background()

	createUser(t, repos, "alice")
	createUser(t, repos, "bob")
	conv := resolveConv(t, repos, "alice", "bob")

	_, err := svc.Send(ctx, "alice", &SendMessageRequest{ConversationId: conv.Id, Content: "unread"})
	require.NoError(t, err)

	affected, err := svc.MarkRead(ctx, "mallory", conv.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	affected, err = svc.MarkRead(ctx, "bob", conv.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestEdit_Permissions(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMessageService(repos)
	ctx := context.Background()

	createUser(t, repos, "alice")
	createUser(t, repos, "bob")
	conv := resolveConv(t, repos, "alice", "bob")

	msg, err := svc.Send(ctx, "alice", &SendMessageRequest{ConversationId: conv.Id, Content: "typo"})
	require.NoError(t, err)

	edited, err := svc.Edit(ctx, "alice", msg.Id, "fixed")
	require.NoError(t, err)
	assert.Equal(t, "fixed", edited.Content)

	// The peer may edit too
	edited, err = svc.Edit(ctx, "bob", msg.Id, "peer edit")
	require.NoError(t, err)
	assert.Equal(t, "peer edit", edited.Content)

	// An outsider gets not-found
	_, err = svc.Edit(ctx, "mallory", msg.Id, "hijack")
	assert.Equal(t, errcode.ErrMessageNotFound, err)

	_, err = svc.Edit(ctx, "alice", 99999, "ghost")
	assert.Equal(t, errcode.ErrMessageNotFound, err)

	_, err = svc.Edit(ctx, "alice", msg.Id, "")
	assert.Equal(t, errcode.ErrEmptyContent, err)
}

func TestDelete_SenderOnly(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMessageService(repos)
	ctx := context.Background()

	createUser(t, repos, "alice")
	createUser(t, repos, "bob")
	conv := resolveConv(t, repos, "alice", "bob")

	msg, err := svc.Send(ctx, "alice", &SendMessageRequest{ConversationId: conv.Id, Content: "mine"})
	require.NoError(t, err)

	// Even the peer cannot delete
	err = svc.Delete(ctx, "bob", msg.Id)
	assert.Equal(t, errcode.ErrMessageNotFound, err)

	require.NoError(t, svc.Delete(ctx, "alice", msg.Id))

	gone, err := repos.Message.GetById(ctx, msg.Id)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestDelete_LastMessageClearsSummary(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMessageService(repos)
	ctx := context.Background()

	createUser(t, repos, "alice")
	createUser(t, repos, "bob")
	conv := resolveConv(t, repos, "alice", "bob")

	first, err := svc.Send(ctx, "alice", &SendMessageRequest{ConversationId: conv.Id, Content: "first"})
	require.NoError(t, err)
	last, err := svc.Send(ctx, "alice", &SendMessageRequest{ConversationId: conv.Id, Content: "last"})
	require.NoError(t, err)

	// Deleting an older message leaves the summary alone
	require.NoError(t, svc.Delete(ctx, "alice", first.Id))
	got, err := repos.Conversation.GetById(ctx, conv.Id)
	require.NoError(t, err)
	require.NotNil(t, got.LastMessageId)
	assert.Equal(t, last.Id, *got.LastMessageId)

	// Deleting the current last message clears the pointer; the
	// activity timestamp stays
	require.NoError(t, svc.Delete(ctx, "alice", last.Id))
	got, err = repos.Conversation.GetById(ctx, conv.Id)
	require.NoError(t, err)
	assert.Nil(t, got.LastMessageId)
	assert.Equal(t, last.CreatedAt, got.LastMessageAt)
}
