package sdk

// Response represents the standard API response
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// Message types
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeAudio = "audio"
)

// Platform ids
const (
	PlatformIOS     = 1
	PlatformAndroid = 2
	PlatformWeb     = 3
)

// UserInfo represents public user info
type UserInfo struct {
	Id        string  `json:"id"`
	Nickname  string  `json:"nickname"`
	Avatar    string  `json:"avatar"`
	Extra     *string `json:"extra,omitempty"`
	CreatedAt int64   `json:"created_at"`
}

// ConversationInfo represents conversation info as seen by the caller
type ConversationInfo struct {
	ConversationId int64  `json:"conversation_id"`
	PeerUserId     string `json:"peer_user_id"`
	LastMessageId  *int64 `json:"last_message_id,omitempty"`
	LastMessageAt  int64  `json:"last_message_at"`
	CreatedAt      int64  `json:"created_at"`
	UpdatedAt      int64  `json:"updated_at"`
}

// MessageInfo represents message info
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

// ===== Request types =====

// RegisterRequest represents user registration request
type RegisterRequest struct {
	UserId   string `json:"user_id,omitempty"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
	Avatar   string `json:"avatar,omitempty"`
}

// LoginRequest represents user login request
type LoginRequest struct {
	UserId     string `json:"user_id"`
	Password   string `json:"password"`
	PlatformId int    `json:"platform_id"`
}

// LoginResponse represents user login response
type LoginResponse struct {
	Token    string    `json:"token"`
	UserInfo *UserInfo `json:"user_info"`
}

// UpdateUserRequest represents user update request
type UpdateUserRequest struct {
	Nickname string  `json:"nickname,omitempty"`
	Avatar   string  `json:"avatar,omitempty"`
	Extra    *string `json:"extra,omitempty"`
}

// ResolveConversationRequest represents resolve conversation request
type ResolveConversationRequest struct {
	PeerId string `json:"peer_id"`
}

// SendMessageRequest represents send message request
type SendMessageRequest struct {
	ConversationId int64  `json:"conversation_id"`
	Content        string `json:"content"`
	MessageType    string `json:"message_type,omitempty"`
}

// MarkReadRequest represents mark read request
type MarkReadRequest struct {
	ConversationId int64 `json:"conversation_id"`
}

// UpdateMessageRequest represents update message request
type UpdateMessageRequest struct {
	MessageId int64  `json:"message_id"`
	Content   string `json:"content"`
}

// DeleteMessageRequest represents delete message request
type DeleteMessageRequest struct {
	MessageId int64 `json:"message_id"`
}

// ===== Response wrappers =====

// ConversationListResponse wraps the conversation list payload
type ConversationListResponse struct {
	Conversations []*ConversationInfo `json:"conversations"`
}

// MessageListResponse wraps the message list payload
type MessageListResponse struct {
	Messages []*MessageInfo `json:"messages"`
}

// MarkReadResponse reports how many messages were flagged read
type MarkReadResponse struct {
	ReadCount int64 `json:"read_count"`
}
