package service

import (
	"context"
	"testing"

	"github.com/dancloud/chat/internal/config"
	"github.com/dancloud/chat/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	repos := newTestRepos(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireHours = 1
	return NewAuthService(repos, cfg)
}

func TestRegister_HashesPassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	info, err := svc.Register(ctx, &RegisterRequest{
		UserId:   "alice",
		Nickname: "Alice",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Id)

	user, err := svc.userRepo.GetById(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, user)

	// The stored value is a bcrypt hash, never the plaintext
	assert.NotEqual(t, "secret123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
}

func TestRegister_GeneratesUserId(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	info, err := svc.Register(ctx, &RegisterRequest{
		Nickname: "Anon",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, info.Id)
}

func TestRegister_DuplicateRejected(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{UserId: "alice", Nickname: "Alice", Password: "x1234567"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterRequest{UserId: "alice", Nickname: "Clone", Password: "x1234567"})
	assert.Equal(t, errcode.ErrUserExists, err)
}

func TestRegister_Validation(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(context.Background(), &RegisterRequest{Nickname: "NoPass"})
	assert.Equal(t, errcode.ErrInvalidParam, err)
}
