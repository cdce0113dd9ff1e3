package service

import (
	"context"
	"testing"

	"github.com/dancloud/chat/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserGetAndUpdate(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewUserService(repos, nil)
	ctx := context.Background()

	createUser(t, repos, "alice")

	info, err := svc.GetById(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Id)

	_, err = svc.GetById(ctx, "nobody")
	assert.Equal(t, errcode.ErrUserNotFound, err)

	updated, err := svc.Update(ctx, "alice", &UpdateUserRequest{Nickname: "Alice A"})
	require.NoError(t, err)
	assert.Equal(t, "Alice A", updated.Nickname)

	got, err := repos.User.GetById(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice A", got.Nickname)
}

func TestUserDelete_CascadesConversationsAndMessages(t *testing.T) {
	repos := newTestRepos(t)
	userSvc := NewUserService(repos, nil)
	msgSvc := NewMessageService(repos)
	ctx := context.Background()

	createUser(t, repos, "alice")
	createUser(t, repos, "bob")
	createUser(t, repos, "carol")

	convAB := resolveConv(t, repos, "alice", "bob")
	convBC := resolveConv(t, repos, "bob", "carol")

	_, err := msgSvc.Send(ctx, "alice", &SendMessageRequest{ConversationId: convAB.Id, Content: "hi"})
	require.NoError(t, err)
	_, err = msgSvc.Send(ctx, "bob", &SendMessageRequest{ConversationId: convBC.Id, Content: "yo"})
	require.NoError(t, err)

	require.NoError(t, userSvc.Delete(ctx, "alice"))

	// Alice, her conversation and its messages are gone
	gone, err := repos.User.GetById(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, gone)

	conv, err := repos.Conversation.GetById(ctx, convAB.Id)
	require.NoError(t, err)
	assert.Nil(t, conv)

	count, err := repos.Message.CountByConversation(ctx, convAB.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Bob and carol's conversation is untouched
	conv, err = repos.Conversation.GetById(ctx, convBC.Id)
	require.NoError(t, err)
	require.NotNil(t, conv)

	count, err = repos.Message.CountByConversation(ctx, convBC.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
