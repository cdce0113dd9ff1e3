package entity

// Conversation represents a pairwise conversation between two users.
// Participants are stored in canonical ascending order so each unordered
// pair maps to exactly one row; the unique index enforces it.
type Conversation struct {
	Id             int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Participant1Id string `json:"participant_1_id" gorm:"column:participant_1_id;size:64;uniqueIndex:uk_conversations_pair,priority:1;check:chk_conversations_distinct,participant_1_id <> participant_2_id"`
	Participant2Id string `json:"participant_2_id" gorm:"column:participant_2_id;size:64;uniqueIndex:uk_conversations_pair,priority:2"`
	LastMessageId  *int64 `json:"last_message_id" gorm:"column:last_message_id"`
	LastMessageAt  int64  `json:"last_message_at" gorm:"column:last_message_at;index"`
	CreatedAt      int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt      int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Conversation
func (Conversation) TableName() string {
	return "conversations"
}

// HasParticipant checks if userId is one of the two participants
func (c *Conversation) HasParticipant(userId string) bool {
	return c.Participant1Id == userId || c.Participant2Id == userId
}

// PeerOf returns the other participant relative to userId.
// Returns empty string if userId is not a participant.
func (c *Conversation) PeerOf(userId string) string {
	switch userId {
	case c.Participant1Id:
		return c.Participant2Id
	case c.Participant2Id:
		return c.Participant1Id
	default:
		return ""
	}
}

// ConversationInfo represents conversation info for API response,
// shaped from the viewer's side
type ConversationInfo struct {
	ConversationId int64  `json:"conversation_id"`
	PeerUserId     string `json:"peer_user_id"`
	LastMessageId  *int64 `json:"last_message_id,omitempty"`
	LastMessageAt  int64  `json:"last_message_at"`
	CreatedAt      int64  `json:"created_at"`
	UpdatedAt      int64  `json:"updated_at"`
}

// ToConversationInfo converts Conversation to ConversationInfo as seen by viewerId
func (c *Conversation) ToConversationInfo(viewerId string) *ConversationInfo {
	return &ConversationInfo{
		ConversationId: c.Id,
		PeerUserId:     c.PeerOf(viewerId),
		LastMessageId:  c.LastMessageId,
		LastMessageAt:  c.LastMessageAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
