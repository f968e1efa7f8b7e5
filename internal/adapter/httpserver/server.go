// Package httpserver implements the web front end using the Echo framework.
//
// Handlers split by concern: handlers_auth.go (login/signup/logout),
// handlers_records.go (the record-keeping screens), handlers_settings.go
// (account management), handlers_health.go (probes). The route guard lives
// in middleware.go.
package httpserver

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/suhangowda96/dairyfarm/internal/adapter/metrics"
	"github.com/suhangowda96/dairyfarm/internal/domain"
	"github.com/suhangowda96/dairyfarm/internal/platform/config"
	"github.com/suhangowda96/dairyfarm/internal/ratelimit"
	"github.com/suhangowda96/dairyfarm/internal/session"
	"github.com/suhangowda96/dairyfarm/internal/upstream"
	"github.com/suhangowda96/dairyfarm/web"
)

// authService is the slice of the gateway client the handlers need.
type authService interface {
	Login(ctx context.Context, username, password string, role domain.Role) upstream.AuthResult
	Signup(ctx context.Context, username, password, confirmPassword string, role domain.Role) upstream.AuthResult
	AddUser(ctx context.Context, caller *domain.Session, username, password, confirmPassword string, role domain.Role) upstream.AuthResult
	UpdateUsername(ctx context.Context, token, newUsername string) error
	ChangePassword(ctx context.Context, token, oldPassword, newPassword, confirmPassword string) error
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	sessions *session.Store
	auth     authService
	api      *upstream.Client
	limiter  *ratelimit.LoginLimiter

	registry    *prometheus.Registry
	authMetrics *metrics.AuthMetrics

	templates    *template.Template
	startTime    time.Time
	healthChecks []HealthCheck
}

func NewServer(cfg *config.Config, sessions *session.Store, auth authService, api *upstream.Client, limiter *ratelimit.LoginLimiter, registry *prometheus.Registry, healthChecks ...HealthCheck) (*Server, error) {
	templates, err := template.ParseFS(web.TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:        e,
		config:      cfg,
		sessions:    sessions,
		auth:        auth,
		api:         api,
		limiter:     limiter,
		registry:    registry,
		authMetrics: metrics.NewAuthMetrics(registry),
		templates:   templates,
		startTime:   time.Now(),

		healthChecks: healthChecks,
	}

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// renderTemplate renders to a buffer first so a template failure never sends
// partial HTML.
func (s *Server) renderTemplate(c echo.Context, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Template execution failed", "template", name, "path", c.Request().URL.Path, "error", err)
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(http.StatusOK, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}

// pageData is the payload every template receives.
type pageData struct {
	Session *domain.Session
	CSRF    string
	Errors  domain.FieldErrors
	Form    map[string]string
	Data    any
}

func (s *Server) newPageData(c echo.Context) pageData {
	csrf, _ := c.Get("csrf").(string)
	return pageData{
		Session: currentSession(c),
		CSRF:    csrf,
		Errors:  domain.FieldErrors{},
		Form:    map[string]string{},
	}
}
