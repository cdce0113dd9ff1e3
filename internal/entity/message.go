package entity

// Message represents a message within a conversation
type Message struct {
	Id             int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ConversationId int64  `json:"conversation_id" gorm:"column:conversation_id;index:idx_messages_conversation"`
	SenderId       string `json:"sender_id" gorm:"column:sender_id;size:64;index:idx_messages_sender"`
	Content        string `json:"content" gorm:"column:content;type:text"`
	MessageType    string `json:"message_type" gorm:"column:message_type;size:16;default:text"`
	IsRead         bool   `json:"is_read" gorm:"column:is_read;default:false"`
	CreatedAt      int64  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      int64  `json:"updated_at" gorm:"column:updated_at"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// MessageInfo represents message info for API response
type MessageInfo struct {
	Id             int64  `json:"id"`
	ConversationId int64  `json:"conversation_id"`
	SenderId       string `json:"sender_id"`
	Content        string `json:"content"`
	MessageType    string `json:"message_type"`
	IsRead         bool   `json:"is_read"`
	CreatedAt      int64  `json:"created_at"`
	UpdatedAt      int64  `json:"updated_at"`
}

// ToMessageInfo converts Message to MessageInfo
func (m *Message) ToMessageInfo() *MessageInfo {
	return &MessageInfo{
		Id:             m.Id,
		ConversationId: m.ConversationId,
		SenderId:       m.SenderId,
		Content:        m.Content,
		MessageType:    m.MessageType,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
