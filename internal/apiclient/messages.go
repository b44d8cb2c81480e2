package apiclient

import (
	"context"
	"net/http"

	"internship-portal/internal/models"
)

func (c *Client) Conversations(ctx context.Context, token string) ([]models.Conversation, error) {
	var out []models.Conversation
	err := c.do(ctx, call{method: http.MethodGet, route: "/messages/conversations", path: "/messages/conversations", token: token, out: &out})
	return out, err
}

// Thread returns the messages exchanged with userID, oldest first.
func (c *Client) Thread(ctx context.Context, token, userID string) ([]models.Message, error) {
	var out []models.Message
	err := c.do(ctx, call{method: http.MethodGet, route: "/messages/with/{userId}", path: "/messages/with/" + pathID(userID), token: token, out: &out})
	return out, err
}

func (c *Client) SendMessage(ctx context.Context, token string, in models.MessageInput) (*models.Message, error) {
	var out models.Message
	err := c.do(ctx, call{method: http.MethodPost, route: "/messages", path: "/messages", token: token, body: in, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MarkRead(ctx context.Context, token, messageID string) error {
	return c.do(ctx, call{method: http.MethodPatch, route: "/messages/{id}/read", path: "/messages/" + pathID(messageID) + "/read", token: token})
}

func (c *Client) UnreadCount(ctx context.Context, token string) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := c.do(ctx, call{method: http.MethodGet, route: "/messages/unread-count", path: "/messages/unread-count", token: token, out: &out})
	return out.Count, err
}
