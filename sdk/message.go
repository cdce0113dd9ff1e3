package sdk

import (
	"context"
	"strconv"
)

// SendMessage sends a message to a conversation
func (c *Client) SendMessage(ctx context.Context, req *SendMessageRequest) (*MessageInfo, error) {
	var result MessageInfo
	if err := c.post(ctx, "/msg/send", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendTextMessage is a convenience method to send a text message
func (c *Client) SendTextMessage(ctx context.Context, conversationId int64, text string) (*MessageInfo, error) {
	return c.SendMessage(ctx, &SendMessageRequest{
		ConversationId: conversationId,
		Content:        text,
		MessageType:    MessageTypeText,
	})
}

// ListMessages lists messages of a conversation in creation order.
// beforeId and limit are optional; pass 0 to use server defaults.
func (c *Client) ListMessages(ctx context.Context, conversationId int64, limit int, beforeId int64) ([]*MessageInfo, error) {
	params := map[string]string{
		"conversation_id": strconv.FormatInt(conversationId, 10),
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	if beforeId > 0 {
		params["before_id"] = strconv.FormatInt(beforeId, 10)
	}

	var result MessageListResponse
	if err := c.get(ctx, "/msg/list", params, &result); err != nil {
		return nil, err
	}
	return result.Messages, nil
}

// MarkRead marks the peer's messages in a conversation as read and
// returns how many were affected
func (c *Client) MarkRead(ctx context.Context, conversationId int64) (int64, error) {
	req := &MarkReadRequest{ConversationId: conversationId}
	var result MarkReadResponse
	if err := c.post(ctx, "/msg/read", req, &result); err != nil {
		return 0, err
	}
	return result.ReadCount, nil
}

// UpdateMessage replaces a message's content
func (c *Client) UpdateMessage(ctx context.Context, messageId int64, content string) (*MessageInfo, error) {
	req := &UpdateMessageRequest{MessageId: messageId, Content: content}
	var result MessageInfo
	if err := c.put(ctx, "/msg/update", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteMessage deletes a message the current user sent
func (c *Client) DeleteMessage(ctx context.Context, messageId int64) error {
	req := &DeleteMessageRequest{MessageId: messageId}
	return c.delete(ctx, "/msg/delete", req, nil)
}
