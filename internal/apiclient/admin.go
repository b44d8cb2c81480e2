package apiclient

import (
	"context"
	"net/http"

	"internship-portal/internal/models"
)

func (c *Client) Users(ctx context.Context, token string) ([]models.User, error) {
	var out []models.User
	err := c.do(ctx, call{method: http.MethodGet, route: "/admin/users", path: "/admin/users", token: token, out: &out})
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/admin/users/{id}", path: "/admin/users/" + pathID(id), token: token})
}

func (c *Client) SetUserActive(ctx context.Context, token, id string, active bool) error {
	return c.do(ctx, call{
		method: http.MethodPatch,
		route:  "/admin/users/{id}/active",
		path:   "/admin/users/" + pathID(id) + "/active",
		token:  token,
		body:   map[string]bool{"is_active": active},
	})
}

func (c *Client) Settings(ctx context.Context, token string) (*models.SystemSettings, error) {
	var out models.SystemSettings
	err := c.do(ctx, call{method: http.MethodGet, route: "/admin/settings", path: "/admin/settings", token: token, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSettings(ctx context.Context, token string, s models.SystemSettings) (*models.SystemSettings, error) {
	var out models.SystemSettings
	err := c.do(ctx, call{method: http.MethodPut, route: "/admin/settings", path: "/admin/settings", token: token, body: s, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Stats(ctx context.Context, token string) (*models.AdminStats, error) {
	var out models.AdminStats
	err := c.do(ctx, call{method: http.MethodGet, route: "/admin/stats", path: "/admin/stats", token: token, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
