package policy

import (
	"testing"

	"github.com/dancloud/chat/internal/entity"
	"github.com/stretchr/testify/assert"
)

func testConversation() *entity.Conversation {
	return &entity.Conversation{
		Id:             1,
		Participant1Id: "alice",
		Participant2Id: "bob",
	}
}

func TestCanAccessConversation(t *testing.T) {
	conv := testConversation()

	assert.True(t, CanAccessConversation("alice", conv))
	assert.True(t, CanAccessConversation("bob", conv))
	assert.False(t, CanAccessConversation("mallory", conv))

	// Missing conversation is a denial, not a panic
	assert.False(t, CanAccessConversation("alice", nil))
}

func TestCanSendAs(t *testing.T) {
	conv := testConversation()

	assert.True(t, CanSendAs("alice", "alice", conv))

	// A participant cannot impersonate the peer
	assert.False(t, CanSendAs("alice", "bob", conv))
	// An outsider cannot send at all
	assert.False(t, CanSendAs("mallory", "mallory", conv))
}

func TestCanUpdateMessage(t *testing.T) {
	conv := testConversation()
	msg := &entity.Message{Id: 10, ConversationId: 1, SenderId: "alice"}

	assert.True(t, CanUpdateMessage("alice", msg, conv))
	// The peer may update too (read flags)
	assert.True(t, CanUpdateMessage("bob", msg, conv))
	assert.False(t, CanUpdateMessage("mallory", msg, conv))
	assert.False(t, CanUpdateMessage("alice", nil, conv))
}

func TestCanDeleteMessage(t *testing.T) {
	msg := &entity.Message{Id: 10, ConversationId: 1, SenderId: "alice"}

	assert.True(t, CanDeleteMessage("alice", msg))
	// Deletion is sender-only, the peer does not qualify
	assert.False(t, CanDeleteMessage("bob", msg))
	assert.False(t, CanDeleteMessage("alice", nil))
}
