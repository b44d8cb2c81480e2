package apiclient

import (
	"context"
	"net/http"

	"internship-portal/internal/models"
)

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.do(ctx, call{method: http.MethodPost, route: "/auth/login", path: "/auth/login", body: req, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RegisterStudent(ctx context.Context, req models.StudentRegistration) (*models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.do(ctx, call{method: http.MethodPost, route: "/auth/register/student", path: "/auth/register/student", body: req, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RegisterCompany(ctx context.Context, req models.CompanyRegistration) (*models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.do(ctx, call{method: http.MethodPost, route: "/auth/register/company", path: "/auth/register/company", body: req, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the user owning token.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	var out models.User
	err := c.do(ctx, call{method: http.MethodGet, route: "/auth/me", path: "/auth/me", token: token, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PublicSettings returns the registration flags and announcement shown to
// anonymous visitors.
func (c *Client) PublicSettings(ctx context.Context) (*models.PublicSettings, error) {
	var out models.PublicSettings
	err := c.do(ctx, call{method: http.MethodGet, route: "/settings/public", path: "/settings/public", out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
