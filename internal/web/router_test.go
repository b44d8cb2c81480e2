package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"internship-portal/internal/common/metrics"
	"internship-portal/internal/models"
	"internship-portal/internal/pages/pagestest"
	"internship-portal/internal/web/middleware"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

func newRouter(t *testing.T, pinger Pinger) (*pagestest.Env, http.Handler) {
	t.Helper()
	env := pagestest.New(t, http.NewServeMux())
	h, err := NewRouter(Options{
		Deps:  env.Deps,
		Redis: pinger,
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		}),
		Now: func() time.Time { return pagestest.Now },
	})
	require.NoError(t, err)
	return env, h
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndReady(t *testing.T) {
	_, h := newRouter(t, fakePinger{})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","time":"2025-03-10T12:00:00Z"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	_, down := newRouter(t, fakePinger{err: fmt.Errorf("connection refused")})
	rec = serve(down, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unavailable")
}

func TestMetricsEndpoint(t *testing.T) {
	_, h := newRouter(t, nil)
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# metrics", rec.Body.String())
}

func TestPageMetricsUseRoutePattern(t *testing.T) {
	_, h := newRouter(t, nil)
	counter := metrics.PageRequests.WithLabelValues("GET /health", "200")
	before := testutil.ToFloat64(counter)

	serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestUnknownPathRendersNotFound(t *testing.T) {
	_, h := newRouter(t, nil)
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/no/such/page", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not exist")
}

func TestAreasAreMounted(t *testing.T) {
	env, h := newRouter(t, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/login"))

	_, cookie := env.Login(models.RoleStudent, "s1")
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(cookie)
	rec = serve(h, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/student/dashboard", rec.Header().Get("Location"))
}

func TestPostWithoutCSRFTokenIsRejected(t *testing.T) {
	env, h := newRouter(t, nil)
	_, cookie := env.Login(models.RoleStudent, "s1")

	form := url.Values{"cover_letter": {"Hello"}}
	req := httptest.NewRequest(http.MethodPost, "/internships/i1/apply", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)

	rec := serve(h, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
