package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/suhangowda96/dairyfarm/internal/adapter/httpserver"
	"github.com/suhangowda96/dairyfarm/internal/adapter/metrics"
	"github.com/suhangowda96/dairyfarm/internal/platform/config"
	"github.com/suhangowda96/dairyfarm/internal/platform/logging"
	"github.com/suhangowda96/dairyfarm/internal/ratelimit"
	"github.com/suhangowda96/dairyfarm/internal/session"
	"github.com/suhangowda96/dairyfarm/internal/upstream"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// setupRedis connects to Redis when a URL is configured. Without one the
// login limiter runs disabled, so a missing Redis never blocks startup.
func setupRedis(ctx context.Context, redisURL string) *goredis.Client {
	if redisURL == "" {
		slog.Info("REDIS_URL not set, login attempt limiting disabled")
		return nil
	}

	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		slog.Error("Failed to parse Redis URL", "error", err)
		os.Exit(1)
	}

	client := goredis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *httpserver.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	redisClient := setupRedis(context.Background(), cfg.RedisURL)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	var limiter *ratelimit.LoginLimiter
	if redisClient != nil {
		limiter = ratelimit.NewLoginLimiter(redisClient, clock, cfg.LoginAttemptLimit, cfg.LoginAttemptWindow)
	}

	sessions := session.New(cfg.SessionSecret, cfg.SessionMaxAge, cfg.AppEnv == "production")
	api := upstream.New(cfg.APIBaseURL, cfg.UpstreamTimeout)
	registry := metrics.NewRegistry()

	healthChecks := []httpserver.HealthCheck{}
	if redisClient != nil {
		healthChecks = append(healthChecks, httpserver.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	srv, err := httpserver.NewServer(cfg, sessions, api, api, limiter, registry, healthChecks...)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
