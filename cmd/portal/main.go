package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"internship-portal/internal/apiclient"
	"internship-portal/internal/common/aws"
	"internship-portal/internal/common/config"
	"internship-portal/internal/common/database"
	"internship-portal/internal/common/logger"
	"internship-portal/internal/common/observability"
	"internship-portal/internal/notify"
	"internship-portal/internal/pages"
	"internship-portal/internal/session"
	"internship-portal/internal/web"
	"internship-portal/internal/web/render"
	"internship-portal/pkg/registry"

	"go.uber.org/zap"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting internship portal...",
		zap.String("environment", cfg.App.Environment),
		zap.String("apiBaseUrl", cfg.API.BaseURL),
	)

	obs := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
		Logger:         log,
	})
	defer obs.Shutdown(context.Background())

	ctx := context.Background()

	// --- Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		c, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			return err
		}
		redisClient = c
		return nil
	}, 5, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	sessions, err := session.NewManager(session.ManagerOptions{
		Store:      session.NewRedisStore(redisClient.GetClient(), cfg.Session.KeyPrefix),
		CookieName: cfg.Session.CookieName,
		TTL:        time.Duration(cfg.Session.TTLMinutes) * time.Minute,
		Secure:     cfg.Session.SecureCookie,
		Logger:     log,
	})
	if err != nil {
		zapLog.Fatal("failed to create session manager", zap.Error(err))
	}

	api, err := apiclient.New(apiclient.Options{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       millis(cfg.API.Timeout),
		Logger:        log,
		Observability: obs,
	})
	if err != nil {
		zapLog.Fatal("failed to create api client", zap.Error(err))
	}

	notifier, err := buildNotifier(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("failed to create notifier", zap.Error(err))
	}

	nav, err := registry.LoadOrDefault(cfg.UI.RegistryPath)
	if err != nil {
		zapLog.Fatal("failed to load navigation registry", zap.Error(err))
	}

	renderer, err := render.New(render.Options{
		AppName:  cfg.App.Name,
		Registry: nav,
		Unread:   api,
		Flashes:  sessions,
		Logger:   log,
	})
	if err != nil {
		zapLog.Fatal("failed to parse templates", zap.Error(err))
	}

	handler, err := web.NewRouter(web.Options{
		Deps: pages.Dependencies{
			API:      api,
			Sessions: sessions,
			Renderer: renderer,
			Notifier: notifier,
			Logger:   log,
			PageSize: cfg.UI.PageSize,
		},
		Redis:          redisClient,
		Observability:  obs,
		RequestTimeout: millis(cfg.Server.RequestTimeout),
	})
	if err != nil {
		zapLog.Fatal("failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           handler,
		ReadTimeout:       millis(cfg.Server.ReadTimeout),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      millis(cfg.Server.WriteTimeout),
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), millis(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	zapLog.Info("Internship portal stopped gracefully")
}

// buildNotifier creates the SES and SNS clients for the enabled channels
// only. A disabled channel stays nil and the notifier skips it.
func buildNotifier(ctx context.Context, cfg *config.Config, log logger.Logger) (*notify.Notifier, error) {
	n := cfg.Notifications
	opts := notify.Options{
		FromEmail:      n.SES.FromEmail,
		SupportAddress: n.SES.SupportAddress,
		TopicARN:       n.SNS.TopicARN,
		Logger:         log,
	}
	if n.SES.Enabled {
		c, err := aws.NewSESClient(ctx, n.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("ses client: %w", err)
		}
		opts.Email = c
	}
	if n.SNS.Enabled {
		c, err := aws.NewSNSClient(ctx, n.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("sns client: %w", err)
		}
		opts.Publisher = c
	}
	return notify.New(opts), nil
}
