package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv string `env:"APP_ENV" default:"development"`
	Port   string `env:"PORT" default:"8080"`

	// APIBaseURL points at the remote farm API this front end consumes.
	APIBaseURL    string `env:"API_BASE_URL"`
	SessionSecret string `env:"SESSION_SECRET"`

	// RedisURL is optional; the login attempt limiter is disabled when empty.
	RedisURL string `env:"REDIS_URL"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	SessionMaxAge   time.Duration `env:"SESSION_MAX_AGE" default:"168h"` // 7 days
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" default:"10s"`

	LoginAttemptLimit  int           `env:"LOGIN_ATTEMPT_LIMIT" default:"10"`
	LoginAttemptWindow time.Duration `env:"LOGIN_ATTEMPT_WINDOW" default:"5m"`

	RateLimitPerSecond float64 `env:"RATE_LIMIT_PER_SECOND" default:"5"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST" default:"10"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"API_BASE_URL":   cfg.APIBaseURL,
		"SESSION_SECRET": cfg.SessionSecret,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return fmt.Errorf("API_BASE_URL must be a valid URL: %w", err)
	}

	if cfg.SessionMaxAge <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE must be positive")
	}
	if cfg.LoginAttemptLimit <= 0 {
		return fmt.Errorf("LOGIN_ATTEMPT_LIMIT must be positive")
	}
	if cfg.LoginAttemptWindow <= 0 {
		return fmt.Errorf("LOGIN_ATTEMPT_WINDOW must be positive")
	}

	return nil
}
