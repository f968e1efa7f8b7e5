package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suhangowda96/dairyfarm/internal/adapter/metrics"
	"github.com/suhangowda96/dairyfarm/internal/domain"
)

func (s *Server) registerAuthRoutes(csrfMiddleware, rateLimiter echo.MiddlewareFunc) {
	s.echo.GET("/login", s.handleLoginPage, rateLimiter, s.redirectAuthenticated, csrfMiddleware)
	s.echo.POST("/login", s.handleLogin, rateLimiter, s.redirectAuthenticated, csrfMiddleware)
	s.echo.GET("/signup", s.handleSignupPage, rateLimiter, s.redirectAuthenticated, csrfMiddleware)
	s.echo.POST("/signup", s.handleSignup, rateLimiter, s.redirectAuthenticated, csrfMiddleware)
	s.echo.GET("/forgot-password", s.handleForgotPasswordPage, rateLimiter, s.redirectAuthenticated)
	s.echo.POST("/logout", s.handleLogout, rateLimiter, s.requireSession, csrfMiddleware)
}

func (s *Server) handleLoginPage(c echo.Context) error {
	return s.renderTemplate(c, "login.html", s.newPageData(c))
}

func (s *Server) handleLogin(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	role := domain.Role(c.FormValue("role"))

	data := s.newPageData(c)
	data.Form["username"] = username
	data.Form["role"] = string(role)

	if !s.limiter.Allow(c.Request().Context(), username, c.RealIP()) {
		s.authMetrics.Logins.WithLabelValues(metrics.OutcomeRateLimited).Inc()
		data.Errors[domain.FieldGeneral] = "Too many attempts. Please wait a few minutes and try again."
		return s.renderTemplate(c, "login.html", data)
	}

	result := s.auth.Login(c.Request().Context(), username, password, role)
	if !result.OK {
		s.authMetrics.Logins.WithLabelValues(metrics.OutcomeRejected).Inc()
		data.Errors = result.FieldErrors
		return s.renderTemplate(c, "login.html", data)
	}

	if err := s.sessions.Set(c.Request(), c.Response().Writer, result.Session); err != nil {
		slog.Error("Failed to persist session", "error", err)
		data.Errors[domain.FieldGeneral] = "Something went wrong. Please try again."
		return s.renderTemplate(c, "login.html", data)
	}

	s.limiter.Reset(c.Request().Context(), username, c.RealIP())
	s.authMetrics.Logins.WithLabelValues(metrics.OutcomeSuccess).Inc()
	slog.Info("User logged in", "subject_id", result.Session.SubjectID, "role", result.Session.Role)

	return c.Redirect(http.StatusFound, defaultAuthedPath)
}

func (s *Server) handleSignupPage(c echo.Context) error {
	return s.renderTemplate(c, "signup.html", s.newPageData(c))
}

func (s *Server) handleSignup(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	confirm := c.FormValue("confirm_password")
	role := domain.Role(c.FormValue("role"))

	data := s.newPageData(c)
	data.Form["username"] = username
	data.Form["role"] = string(role)

	result := s.auth.Signup(c.Request().Context(), username, password, confirm, role)
	if !result.OK {
		s.authMetrics.Signups.WithLabelValues(metrics.OutcomeRejected).Inc()
		data.Errors = result.FieldErrors
		return s.renderTemplate(c, "signup.html", data)
	}

	if err := s.sessions.Set(c.Request(), c.Response().Writer, result.Session); err != nil {
		slog.Error("Failed to persist session", "error", err)
		data.Errors[domain.FieldGeneral] = "Something went wrong. Please try again."
		return s.renderTemplate(c, "signup.html", data)
	}

	s.authMetrics.Signups.WithLabelValues(metrics.OutcomeSuccess).Inc()
	slog.Info("User signed up", "subject_id", result.Session.SubjectID, "role", result.Session.Role)

	return c.Redirect(http.StatusFound, defaultAuthedPath)
}

func (s *Server) handleForgotPasswordPage(c echo.Context) error {
	return s.renderTemplate(c, "forgot_password.html", s.newPageData(c))
}

func (s *Server) handleLogout(c echo.Context) error {
	if err := s.sessions.Clear(c.Request(), c.Response().Writer); err != nil {
		slog.Error("Failed to clear session during logout", "error", err)
		return c.String(http.StatusInternalServerError, "Failed to log out. Please clear your browser cookies.")
	}
	return c.Redirect(http.StatusFound, "/login")
}
