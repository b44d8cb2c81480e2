// Package web assembles the page handlers, the operational endpoints and the
// middleware chain into the server's root handler.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"internship-portal/internal/common/errors"
	"internship-portal/internal/common/logger"
	"internship-portal/internal/common/observability"
	"internship-portal/internal/pages"
	"internship-portal/internal/pages/admin"
	"internship-portal/internal/pages/auth"
	"internship-portal/internal/pages/company"
	"internship-portal/internal/pages/messages"
	"internship-portal/internal/pages/public"
	"internship-portal/internal/pages/student"
	"internship-portal/internal/web/middleware"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultMaxBodyBytes = 1 << 20

// Pinger is satisfied by *database.RedisClient.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Deps           pages.Dependencies
	Redis          Pinger
	Observability  *observability.Observability
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	// MetricsHandler serves /metrics. Nil means the default Prometheus
	// registry.
	MetricsHandler http.Handler
	Now            func() time.Time
}

type registrar interface {
	Register(mux *http.ServeMux)
}

// NewRouter registers every page area on one mux and wraps it in the
// middleware chain.
func NewRouter(opts Options) (http.Handler, error) {
	if err := opts.Deps.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.MetricsHandler == nil {
		opts.MetricsHandler = promhttp.Handler()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	deps := opts.Deps
	log := deps.Logger

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", opts.Now())
	})
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		if opts.Redis != nil {
			if err := opts.Redis.Ping(r.Context()); err != nil {
				logger.FromContext(r.Context(), log).Warn("readiness check failed", map[string]interface{}{"error": err.Error()})
				writeStatus(w, http.StatusServiceUnavailable, "unavailable", opts.Now())
				return
			}
		}
		writeStatus(w, http.StatusOK, "ready", opts.Now())
	})
	mux.Handle("GET /metrics", opts.MetricsHandler)

	areas := []struct {
		name  string
		build func(pages.Dependencies) (registrar, error)
	}{
		{"public", func(d pages.Dependencies) (registrar, error) { return public.NewHandler(d) }},
		{"auth", func(d pages.Dependencies) (registrar, error) { return auth.NewHandler(d) }},
		{"student", func(d pages.Dependencies) (registrar, error) { return student.NewHandler(d) }},
		{"company", func(d pages.Dependencies) (registrar, error) { return company.NewHandler(d) }},
		{"messages", func(d pages.Dependencies) (registrar, error) { return messages.NewHandler(d) }},
		{"admin", func(d pages.Dependencies) (registrar, error) { return admin.NewHandler(d) }},
	}
	for _, area := range areas {
		h, err := area.build(deps)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s pages: %w", area.name, err)
		}
		h.Register(mux)
	}
	mux.HandleFunc("/", deps.Renderer.NotFound)

	onPanic := func(w http.ResponseWriter, r *http.Request) {
		deps.Renderer.RenderError(w, r, errors.NewInternalError(fmt.Errorf("panic serving %s", r.URL.Path)))
	}

	return middleware.Chain(
		middleware.Metrics(opts.Observability)(mux),
		middleware.RequestID(log),
		middleware.Logging(log),
		middleware.BodyLimit(opts.MaxBodyBytes),
		middleware.Recover(log, onPanic),
		middleware.Timeout(opts.RequestTimeout),
		deps.Sessions.LoadSession,
		deps.Sessions.VerifyCSRF,
	), nil
}

func writeStatus(w http.ResponseWriter, code int, status string, now time.Time) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   now.Format(time.RFC3339),
	})
}
