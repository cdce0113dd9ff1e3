package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dancloud/chat/internal/entity"
	"github.com/dancloud/chat/internal/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRepos opens an isolated in-memory database per test, mirroring
// the production gorm setup (TranslateError on).
func newTestRepos(t *testing.T) *repository.Repositories {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	repos := repository.NewRepositoriesWithDB(db, nil)
	require.NoError(t, repos.AutoMigrate())
	return repos
}

func createUser(t *testing.T, repos *repository.Repositories, id string) {
	t.Helper()
	require.NoError(t, repos.User.Create(context.Background(), &entity.User{
		Id:       id,
		Nickname: id,
		Password: "x",
	}))
}

func resolveConv(t *testing.T, repos *repository.Repositories, userA, userB string) *entity.Conversation {
	t.Helper()
	conv, _, err := repos.Conversation.GetOrCreate(context.Background(), userA, userB)
	require.NoError(t, err)
	return conv
}

// recordingNotifier captures pushed events for assertions
type recordingNotifier struct {
	messages      []*entity.Message
	conversations []*entity.Conversation
}

func (n *recordingNotifier) NotifyNewMessage(msg *entity.Message, conv *entity.Conversation) {
	n.messages = append(n.messages, msg)
	n.conversations = append(n.conversations, conv)
}
