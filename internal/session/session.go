// Package session keeps the per-browser login state server side. The browser
// only holds an opaque cookie; the bearer token, role and user summary live
// in Redis.
package session

import (
	"context"
	"time"

	"internship-portal/internal/models"

	"github.com/google/uuid"
)

type Session struct {
	ID        string      `json:"id"`
	Token     string      `json:"token,omitempty"`
	Role      models.Role `json:"role,omitempty"`
	UserID    string      `json:"user_id,omitempty"`
	UserName  string      `json:"user_name,omitempty"`
	Email     string      `json:"email,omitempty"`
	CSRFToken string      `json:"csrf_token"`
	Flash     *Flash      `json:"flash,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

func newSession(now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        uuid.NewString(),
		CSRFToken: uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsAuthenticated reports whether the session carries a bearer token.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != ""
}

func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// HasRole reports whether the session is authenticated as one of roles.
func (s *Session) HasRole(roles ...models.Role) bool {
	if !s.IsAuthenticated() {
		return false
	}
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}

// User rebuilds the user summary stored at login.
func (s *Session) User() *models.User {
	if !s.IsAuthenticated() {
		return nil
	}
	return &models.User{ID: s.UserID, Name: s.UserName, Email: s.Email, Role: s.Role, IsActive: true}
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request's session or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}

// Token returns the bearer token of the request's session, or "".
func Token(ctx context.Context) string {
	if s := FromContext(ctx); s != nil {
		return s.Token
	}
	return ""
}
