// internal/api/chatbot.go
package api

import (
	"context"

	"estate-client/internal/models"
	"estate-client/pkg/registry"
)

func (c *Client) SendChatMessage(ctx context.Context, sessionID, text string) (models.ChatReply, error) {
	var out models.ChatReply
	err := c.mutate(ctx, call{name: registry.ChatMessage, body: models.ChatRequest{Message: text, SessionID: sessionID}}, &out)
	return out, err
}

func (c *Client) SaveChatMessage(ctx context.Context, msg models.ChatSaveRequest) error {
	return c.mutate(ctx, call{name: registry.ChatSave, body: msg}, nil)
}

func (c *Client) ChatHistory(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	var out models.ChatHistory
	if err := c.query(ctx, call{name: registry.ChatHistory, params: []string{sessionID}}, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}
