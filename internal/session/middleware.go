package session

import (
	"crypto/subtle"
	"net/http"
	"net/url"

	"internship-portal/internal/common/logger"
	"internship-portal/internal/models"
)

// LoadSession puts the browser's session, if any, into the request context.
// A store failure is logged and the request continues anonymously.
func (m *Manager) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.Load(r)
		if err != nil {
			logger.FromContext(r.Context(), m.log).Error("failed to load session", map[string]interface{}{
				"error": err.Error(),
			})
		}
		if sess != nil {
			r = r.WithContext(WithSession(r.Context(), sess))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole sends visitors without a token to the login page and
// authenticated users of another role to their own dashboard.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := FromContext(r.Context())
			if !sess.IsAuthenticated() {
				http.Redirect(w, r, LoginURL(r), http.StatusSeeOther)
				return
			}
			if !sess.HasRole(roles...) {
				http.Redirect(w, r, sess.Role.DashboardPath(), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoginURL is the login page with a return path to the current request.
// Only GET requests are worth returning to.
func LoginURL(r *http.Request) string {
	if r.Method != http.MethodGet {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(r.URL.RequestURI())
}

// VerifyCSRF rejects state-changing requests whose csrf_token form value (or
// X-CSRF-Token header) does not match the session. Requests without a
// session carry no credentials and pass through.
func (m *Manager) VerifyCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		sess := FromContext(r.Context())
		if sess == nil {
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get("X-CSRF-Token")
		if token == "" {
			token = r.FormValue("csrf_token")
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(sess.CSRFToken)) != 1 {
			logger.FromContext(r.Context(), m.log).Warn("csrf token mismatch", map[string]interface{}{
				"path":   r.URL.Path,
				"method": r.Method,
			})
			http.Error(w, "invalid or missing CSRF token", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SafeNext returns next when it is a local absolute path, fallback otherwise.
func SafeNext(next, fallback string) string {
	if len(next) < 1 || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		return fallback
	}
	return next
}
