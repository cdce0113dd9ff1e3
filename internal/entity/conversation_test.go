package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalPair(t *testing.T) {
	p1, p2 := CanonicalPair("alice", "bob")
	assert.Equal(t, "alice", p1)
	assert.Equal(t, "bob", p2)

	// Swapped input yields the same tuple
	p1, p2 = CanonicalPair("bob", "alice")
	assert.Equal(t, "alice", p1)
	assert.Equal(t, "bob", p2)

	// Ordering is lexicographic, not length based
	p1, p2 = CanonicalPair("user_10", "user_2")
	assert.Equal(t, "user_10", p1)
	assert.Equal(t, "user_2", p2)
}

func TestConversationPeerOf(t *testing.T) {
	conv := &Conversation{
		Id:             1,
		Participant1Id: "alice",
		Participant2Id: "bob",
	}

	assert.Equal(t, "bob", conv.PeerOf("alice"))
	assert.Equal(t, "alice", conv.PeerOf("bob"))
	assert.Equal(t, "", conv.PeerOf("mallory"))

	assert.True(t, conv.HasParticipant("alice"))
	assert.True(t, conv.HasParticipant("bob"))
	assert.False(t, conv.HasParticipant("mallory"))
}

func TestToConversationInfoViewerSide(t *testing.T) {
	msgId := int64(42)
	conv := &Conversation{
		Id:             7,
		Participant1Id: "alice",
		Participant2Id: "bob",
		LastMessageId:  &msgId,
		LastMessageAt:  1700000000000,
	}

	info := conv.ToConversationInfo("alice")
	assert.Equal(t, int64(7), info.ConversationId)
	assert.Equal(t, "bob", info.PeerUserId)
	assert.Equal(t, &msgId, info.LastMessageId)
	assert.Equal(t, int64(1700000000000), info.LastMessageAt)

	info = conv.ToConversationInfo("bob")
	assert.Equal(t, "alice", info.PeerUserId)
}
