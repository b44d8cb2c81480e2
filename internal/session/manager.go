package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"internship-portal/internal/common/logger"
	"internship-portal/internal/common/metrics"
	"internship-portal/internal/models"
)

type ManagerOptions struct {
	Store      Store
	CookieName string
	TTL        time.Duration
	Secure     bool
	Logger     logger.Logger
}

// Manager ties sessions to the browser cookie.
type Manager struct {
	store      Store
	cookieName string
	ttl        time.Duration
	secure     bool
	log        logger.Logger
	now        func() time.Time
}

func NewManager(opts ManagerOptions) (*Manager, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if opts.CookieName == "" {
		opts.CookieName = "portal_session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewStructured("info", "json")
	}
	return &Manager{
		store:      opts.Store,
		cookieName: opts.CookieName,
		ttl:        opts.TTL,
		secure:     opts.Secure,
		log:        opts.Logger,
		now:        time.Now,
	}, nil
}

func (m *Manager) CookieName() string {
	return m.cookieName
}

// Load returns the session named by the request cookie. A missing cookie or
// unknown session yields (nil, nil).
func (m *Manager) Load(r *http.Request) (*Session, error) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return nil, nil
	}
	sess, err := m.store.Get(r.Context(), c.Value)
	if stderrors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return sess, err
}

// Start logs the browser in. Any previous session is discarded and a fresh id
// is issued.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, r *http.Request, auth *models.AuthResponse) (*Session, error) {
	if old := FromContext(r.Context()); old != nil {
		if err := m.store.Delete(ctx, old.ID); err != nil {
			m.log.Warn("failed to discard previous session", map[string]interface{}{"error": err.Error()})
		} else if old.IsAuthenticated() {
			metrics.SessionsActive.Dec()
		}
	}

	sess := newSession(m.now(), m.ttl)
	sess.Token = auth.AccessToken
	sess.Role = auth.User.Role
	sess.UserID = auth.User.ID
	sess.UserName = auth.User.Name
	sess.Email = auth.User.Email

	if err := m.store.Create(ctx, sess); err != nil {
		return nil, err
	}
	m.setCookie(w, sess)
	metrics.SessionsActive.Inc()

	m.log.Info("session started", map[string]interface{}{
		"userId": sess.UserID,
		"role":   string(sess.Role),
	})
	return sess, nil
}

// Ensure returns the request's session, creating an anonymous one when the
// browser has none. Used before storing a flash for a logged-out visitor.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	if sess := FromContext(r.Context()); sess != nil {
		return sess, nil
	}
	sess := newSession(m.now(), m.ttl)
	if err := m.store.Create(ctx, sess); err != nil {
		return nil, err
	}
	m.setCookie(w, sess)
	return sess, nil
}

// End deletes the session and clears the cookie.
func (m *Manager) End(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	m.clearCookie(w)
	sess := FromContext(r.Context())
	if sess == nil {
		return nil
	}
	if sess.IsAuthenticated() {
		metrics.SessionsActive.Dec()
	}
	return m.store.Delete(ctx, sess.ID)
}

// SetFlash stores a message for the next page view, creating an anonymous
// session when needed.
func (m *Manager) SetFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	ctx := r.Context()
	sess, err := m.Ensure(ctx, w, r)
	if err != nil {
		m.log.Warn("failed to create session for flash", map[string]interface{}{"error": err.Error()})
		return
	}
	sess.Flash = &Flash{Kind: kind, Message: message}
	if err := m.store.Save(ctx, sess); err != nil {
		m.log.Warn("failed to save flash", map[string]interface{}{"error": err.Error()})
	}
}

// PopFlash returns and clears the pending flash.
func (m *Manager) PopFlash(ctx context.Context, sess *Session) *Flash {
	if sess == nil || sess.Flash == nil {
		return nil
	}
	flash := sess.Flash
	sess.Flash = nil
	if err := m.store.Save(ctx, sess); err != nil {
		m.log.Warn("failed to clear flash", map[string]interface{}{"error": err.Error()})
	}
	return flash
}

func (m *Manager) setCookie(w http.ResponseWriter, sess *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
