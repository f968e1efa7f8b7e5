package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suhangowda96/dairyfarm/internal/domain"
	apperrors "github.com/suhangowda96/dairyfarm/internal/platform/errors"
	"github.com/suhangowda96/dairyfarm/internal/platform/requestid"
)

const sessionContextKey = "session"

// publicRoutes may be visited without a session; an authenticated user who
// lands on one is sent to the default view instead.
var publicRoutes = map[string]bool{
	"/login":           true,
	"/signup":          true,
	"/forgot-password": true,
}

const defaultAuthedPath = "/dashboard"

func requestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := requestid.WithID(c.Request().Context(), requestid.NewID())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// loadSession restores the persisted session once per request and attaches
// it to the context. Handlers and guards read it via currentSession; a
// corrupt cookie restores as nil and is handled like a logged-out visitor.
func (s *Server) loadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(sessionContextKey, s.sessions.Restore(c.Request()))
		return next(c)
	}
}

func currentSession(c echo.Context) *domain.Session {
	sess, _ := c.Get(sessionContextKey).(*domain.Session)
	return sess
}

// requireSession is the route guard for protected views: no session means a
// redirect to the login screen.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if currentSession(c) == nil {
			return c.Redirect(http.StatusFound, "/login")
		}
		return next(c)
	}
}

// redirectAuthenticated is the route guard for public-only views: an
// existing session means a redirect to the default authenticated view.
func (s *Server) redirectAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if currentSession(c) != nil && publicRoutes[c.Path()] {
			return c.Redirect(http.StatusFound, defaultAuthedPath)
		}
		return next(c)
	}
}

// requireAdmin gates admin-only screens. Supervisors are bounced to the
// dashboard rather than shown an error page.
func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := currentSession(c)
		if sess == nil {
			return c.Redirect(http.StatusFound, "/login")
		}
		if !sess.IsAdmin() {
			slog.Warn("Non-admin attempted admin route", "path", c.Path(), "subject_id", sess.SubjectID)
			return c.Redirect(http.StatusFound, defaultAuthedPath)
		}
		return next(c)
	}
}

func ErrorHandlingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				return err
			}

			structuredErr := apperrors.AsStructuredError(err)
			logError(c, structuredErr)

			if err := c.JSON(structuredErr.HTTPStatus(), structuredErr.ToResponse()); err != nil {
				return fmt.Errorf("failed to write error response: %w", err)
			}
			return nil
		}
	}
}

func logError(c echo.Context, err *apperrors.Error) {
	attrs := []any{
		"error_type", err.Type,
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"status", err.HTTPStatus(),
	}

	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}

	if sess := currentSession(c); sess != nil {
		attrs = append(attrs, "subject_id", sess.SubjectID)
	}

	switch err.Type {
	case apperrors.TypeValidation:
		slog.Info("Validation error", attrs...)
	case apperrors.TypeNotFound:
		slog.Info("Not found", attrs...)
	case apperrors.TypeUpstream:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.Error("Farm API error", attrs...)
	default:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.Error("Internal error", attrs...)
	}
}
