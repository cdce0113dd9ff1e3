package sdk

import "fmt"

// Error represents an API error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("code: %d, msg: %s", e.Code, e.Msg)
}

// NewError creates a new error
func NewError(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Common error codes
const (
	// Success
	CodeSuccess = 0

	// Common errors (1xxx)
	CodeInvalidParam    = 1001
	CodeInternalServer  = 1002
	CodeUnauthorized    = 1003
	CodeForbidden       = 1004
	CodeNotFound        = 1005
	CodeTooManyRequests = 1006

	// Auth errors (2xxx)
	CodeTokenInvalid  = 2001
	CodeTokenExpired  = 2002
	CodeTokenMissing  = 2003
	CodeTokenMismatch = 2004
	CodeLoginFailed   = 2005
	CodeUserNotFound  = 2006
	CodeUserExists    = 2007
	CodePasswordWrong = 2008

	// Conversation errors (3xxx)
	CodeConvNotFound     = 3001
	CodeSelfConversation = 3002
	CodeConvCreateFailed = 3003

	// Message errors (4xxx)
	CodeMessageNotFound = 4001
	CodeEmptyContent    = 4002
	CodeBadMessageType  = 4003
	CodeSendFailed      = 4004

	// WebSocket errors (5xxx)
	CodeConnOverLimit = 5001
	CodeConnClosed    = 5002
	CodePushFailed    = 5003
)

// Predefined errors
var (
	ErrInvalidParam   = NewError(CodeInvalidParam, "invalid parameter")
	ErrInternalServer = NewError(CodeInternalServer, "internal server error")
	ErrUnauthorized   = NewError(CodeUnauthorized, "unauthorized")
	ErrNotFound       = NewError(CodeNotFound, "not found")

	ErrTokenInvalid  = NewError(CodeTokenInvalid, "token invalid")
	ErrTokenExpired  = NewError(CodeTokenExpired, "token expired")
	ErrTokenMissing  = NewError(CodeTokenMissing, "token missing")
	ErrUserNotFound  = NewError(CodeUserNotFound, "user not found")
	ErrUserExists    = NewError(CodeUserExists, "user already exists")
	ErrPasswordWrong = NewError(CodePasswordWrong, "password wrong")

	ErrConvNotFound     = NewError(CodeConvNotFound, "conversation not found")
	ErrSelfConversation = NewError(CodeSelfConversation, "cannot start a conversation with yourself")

	ErrMessageNotFound = NewError(CodeMessageNotFound, "message not found")
	ErrEmptyContent    = NewError(CodeEmptyContent, "message content is empty")
	ErrBadMessageType  = NewError(CodeBadMessageType, "unsupported message type")
)

// IsCode reports whether err is an API error with the given code
func IsCode(err error, code int) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Code == code
}
