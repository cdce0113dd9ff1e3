// Package policy holds the per-row authorization predicates for the chat
// schema. The service layer applies them uniformly on every list/get/
// update/delete path; a denial surfaces to callers as "not found" or zero
// rows, never as a distinct error.
package policy

import "github.com/dancloud/chat/internal/entity"

// CanAccessConversation reports whether userId may read or update the
// conversation. Only the two stored participants qualify.
func CanAccessConversation(userId string, conv *entity.Conversation) bool {
	if conv == nil {
		return false
	}
	return conv.HasParticipant(userId)
}

// CanReadMessages reports whether userId may read messages of the
// conversation
func CanReadMessages(userId string, conv *entity.Conversation) bool {
	return CanAccessConversation(userId, conv)
}

// CanSendAs reports whether callerId may insert a message into the
// conversation as senderId. The caller must claim their own identity and
// be a participant.
func CanSendAs(callerId, senderId string, conv *entity.Conversation) bool {
	if callerId != senderId {
		return false
	}
	return CanAccessConversation(callerId, conv)
}

// CanUpdateMessage reports whether userId may mutate the message (content
// edit, read flag). The sender and every participant of the owning
// conversation qualify.
func CanUpdateMessage(userId string, msg *entity.Message, conv *entity.Conversation) bool {
	if msg == nil {
		return false
	}
	if msg.SenderId == userId {
		return true
	}
	return CanAccessConversation(userId, conv)
}

// CanDeleteMessage reports whether userId may delete the message. Only
// the sender qualifies.
func CanDeleteMessage(userId string, msg *entity.Message) bool {
	if msg == nil {
		return false
	}
	return msg.SenderId == userId
}
