package sdk

import (
	"context"
	"strconv"
)

// ResolveConversation returns the conversation between the current user
// and peerId, creating it if it does not exist yet. Calling it twice with
// the same peer returns the same conversation.
func (c *Client) ResolveConversation(ctx context.Context, peerId string) (*ConversationInfo, error) {
	req := &ResolveConversationRequest{PeerId: peerId}
	var result ConversationInfo
	if err := c.post(ctx, "/conversation/resolve", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetConversationList gets all conversations for the current user,
// most recently active first
func (c *Client) GetConversationList(ctx context.Context) ([]*ConversationInfo, error) {
	var result ConversationListResponse
	if err := c.get(ctx, "/conversation/list", nil, &result); err != nil {
		return nil, err
	}
	return result.Conversations, nil
}

// GetConversation gets a specific conversation
func (c *Client) GetConversation(ctx context.Context, conversationId int64) (*ConversationInfo, error) {
	params := map[string]string{"conversation_id": strconv.FormatInt(conversationId, 10)}
	var result ConversationInfo
	if err := c.get(ctx, "/conversation/info", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
