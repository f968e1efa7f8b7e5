package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suhangowda96/dairyfarm/internal/domain"
)

func (s *Server) registerSettingsRoutes(csrfMiddleware, rateLimiter echo.MiddlewareFunc) {
	s.echo.GET("/settings", s.handleSettingsPage, s.requireSession, csrfMiddleware)
	s.echo.POST("/settings/username", s.handleChangeUsername, rateLimiter, s.requireSession, csrfMiddleware)
	s.echo.POST("/settings/password", s.handleChangePassword, rateLimiter, s.requireSession, csrfMiddleware)

	s.echo.GET("/users/new", s.handleAddUserPage, s.requireAdmin, csrfMiddleware)
	s.echo.POST("/users/new", s.handleAddUser, rateLimiter, s.requireAdmin, csrfMiddleware)
}

func (s *Server) handleSettingsPage(c echo.Context) error {
	return s.renderTemplate(c, "settings.html", s.newPageData(c))
}

func (s *Server) handleChangeUsername(c echo.Context) error {
	sess := currentSession(c)
	newUsername := c.FormValue("new_username")

	data := s.newPageData(c)

	if err := s.auth.UpdateUsername(c.Request().Context(), sess.Token, newUsername); err != nil {
		data.Errors["new_username"] = err.Error()
		return s.renderTemplate(c, "settings.html", data)
	}

	// The rename succeeded upstream; rewrite the session in place so the
	// durable copy agrees with the server.
	sess.DisplayName = newUsername
	if err := s.sessions.Set(c.Request(), c.Response().Writer, sess); err != nil {
		slog.Error("Failed to re-persist session after rename", "error", err)
	}

	slog.Info("Username changed", "subject_id", sess.SubjectID)
	return c.Redirect(http.StatusFound, "/settings")
}

func (s *Server) handleChangePassword(c echo.Context) error {
	sess := currentSession(c)

	oldPassword := c.FormValue("old_password")
	newPassword := c.FormValue("new_password")
	confirm := c.FormValue("confirm_password")

	data := s.newPageData(c)

	if err := s.auth.ChangePassword(c.Request().Context(), sess.Token, oldPassword, newPassword, confirm); err != nil {
		data.Errors["password"] = err.Error()
		return s.renderTemplate(c, "settings.html", data)
	}

	slog.Info("Password changed", "subject_id", sess.SubjectID)
	return c.Redirect(http.StatusFound, "/settings")
}

func (s *Server) handleAddUserPage(c echo.Context) error {
	return s.renderTemplate(c, "add_user.html", s.newPageData(c))
}

func (s *Server) handleAddUser(c echo.Context) error {
	sess := currentSession(c)

	username := c.FormValue("username")
	password := c.FormValue("password")
	confirm := c.FormValue("confirm_password")
	role := domain.Role(c.FormValue("role"))

	data := s.newPageData(c)
	data.Form["username"] = username
	data.Form["role"] = string(role)

	result := s.auth.AddUser(c.Request().Context(), sess, username, password, confirm, role)
	if !result.OK {
		data.Errors = result.FieldErrors
		return s.renderTemplate(c, "add_user.html", data)
	}

	slog.Info("User account created", "by_subject_id", sess.SubjectID, "username", username, "role", role)
	data.Data = username
	return s.renderTemplate(c, "add_user_done.html", data)
}
