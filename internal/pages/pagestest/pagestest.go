// Package pagestest wires page handlers against a fake backend and an
// in-memory Redis for tests.
package pagestest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"internship-portal/internal/apiclient"
	"internship-portal/internal/common/logger"
	"internship-portal/internal/models"
	"internship-portal/internal/pages"
	"internship-portal/internal/session"
	"internship-portal/internal/web/middleware"
	"internship-portal/internal/web/render"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// Now is the fixed clock handed to handlers.
var Now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type Env struct {
	t        testing.TB
	Backend  *httptest.Server
	Redis    *miniredis.Miniredis
	Sessions *session.Manager
	Deps     pages.Dependencies
	Mux      *http.ServeMux
	Handler  http.Handler
}

// New starts backend as the fake REST API. Register the area's routes on
// env.Mux before sending requests.
func New(t testing.TB, backend http.Handler) *Env {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := logger.NewNoOpLogger()
	sessions, err := session.NewManager(session.ManagerOptions{
		Store:  session.NewRedisStore(rdb, "session:"),
		TTL:    time.Hour,
		Logger: log,
	})
	require.NoError(t, err)

	api, err := apiclient.New(apiclient.Options{BaseURL: srv.URL, Timeout: 2 * time.Second, Logger: log})
	require.NoError(t, err)

	renderer, err := render.New(render.Options{Unread: api, Flashes: sessions, Logger: log})
	require.NoError(t, err)

	mux := http.NewServeMux()
	env := &Env{
		t:        t,
		Backend:  srv,
		Redis:    mr,
		Sessions: sessions,
		Deps: pages.Dependencies{
			API:      api,
			Sessions: sessions,
			Renderer: renderer,
			Logger:   log,
			PageSize: 10,
			Now:      func() time.Time { return Now },
		},
		Mux: mux,
	}
	env.Handler = middleware.Chain(mux, sessions.LoadSession, sessions.VerifyCSRF)
	return env
}

// Login creates an authenticated session and returns it with its cookie.
func (e *Env) Login(role models.Role, userID string) (*session.Session, *http.Cookie) {
	e.t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	sess, err := e.Sessions.Start(req.Context(), rec, req, &models.AuthResponse{
		AccessToken: "token-" + userID,
		User:        models.User{ID: userID, Name: "User " + userID, Email: userID + "@example.com", Role: role},
	})
	require.NoError(e.t, err)
	cookies := rec.Result().Cookies()
	require.NotEmpty(e.t, cookies)
	return sess, cookies[0]
}

// Get issues a GET with an optional session cookie.
func (e *Env) Get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.Handler.ServeHTTP(rec, req)
	return rec
}

// PostForm submits form, adding the session's CSRF token when sess is set.
func (e *Env) PostForm(path string, form url.Values, sess *session.Session, cookie *http.Cookie) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	if sess != nil {
		form.Set("csrf_token", sess.CSRFToken)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.Handler.ServeHTTP(rec, req)
	return rec
}

// Flash reads the pending flash of the session behind cookie.
func (e *Env) Flash(cookie *http.Cookie) *session.Flash {
	e.t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	sess, err := e.Sessions.Load(req)
	require.NoError(e.t, err)
	if sess == nil {
		return nil
	}
	return sess.Flash
}

// JSON writes v as the backend would.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Decode reads a JSON request body sent by the client.
func Decode(t testing.TB, r *http.Request, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r.Body).Decode(v))
}

// Detail is the backend's error body shape.
func Detail(msg string) map[string]string {
	return map[string]string{"detail": msg}
}
