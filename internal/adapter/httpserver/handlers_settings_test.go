package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suhangowda96/dairyfarm/internal/domain"
	"github.com/suhangowda96/dairyfarm/internal/upstream"
)

func TestHandleChangeUsername_Success(t *testing.T) {
	var gotToken, gotUsername string
	mock := &mockAuthService{
		updateUsernameFn: func(_ context.Context, token, newUsername string) error {
			gotToken, gotUsername = token, newUsername
			return nil
		},
	}
	srv := newTestServer(t, mock)

	req := formRequest("/settings/username", url.Values{"new_username": {"alice2"}})
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)
	c.Set(sessionContextKey, supervisorSession())

	require.NoError(t, srv.handleChangeUsername(c))

	assert.Equal(t, "token-abc", gotToken)
	assert.Equal(t, "alice2", gotUsername)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/settings", rec.Header().Get("Location"))

	// Session must be re-persisted with the new display name.
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	restoreReq := httptest.NewRequest(http.MethodGet, "/", nil)
	restoreReq.AddCookie(cookies[0])
	restored := srv.sessions.Restore(restoreReq)
	require.NotNil(t, restored)
	assert.Equal(t, "alice2", restored.DisplayName)
}

func TestHandleChangeUsername_ErrorShownInline(t *testing.T) {
	mock := &mockAuthService{
		updateUsernameFn: func(_ context.Context, _, _ string) error {
			return errors.New("Username already taken")
		},
	}
	srv := newTestServer(t, mock)

	req := formRequest("/settings/username", url.Values{"new_username": {"taken"}})
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)
	c.Set(sessionContextKey, supervisorSession())

	require.NoError(t, srv.handleChangeUsername(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already taken")
}

func TestHandleChangePassword_Success(t *testing.T) {
	mock := &mockAuthService{
		changePasswordFn: func(_ context.Context, token, oldPassword, newPassword, confirm string) error {
			assert.Equal(t, "token-abc", token)
			assert.Equal(t, "old1", oldPassword)
			assert.Equal(t, "new1", newPassword)
			assert.Equal(t, "new1", confirm)
			return nil
		},
	}
	srv := newTestServer(t, mock)

	req := formRequest("/settings/password", url.Values{
		"old_password":     {"old1"},
		"new_password":     {"new1"},
		"confirm_password": {"new1"},
	})
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)
	c.Set(sessionContextKey, supervisorSession())

	require.NoError(t, srv.handleChangePassword(c))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/settings", rec.Header().Get("Location"))
}

func TestHandleChangePassword_ErrorShownInline(t *testing.T) {
	mock := &mockAuthService{
		changePasswordFn: func(_ context.Context, _, _, _, _ string) error {
			return errors.New("Old password is incorrect")
		},
	}
	srv := newTestServer(t, mock)

	req := formRequest("/settings/password", url.Values{
		"old_password":     {"wrong"},
		"new_password":     {"new1"},
		"confirm_password": {"new1"},
	})
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)
	c.Set(sessionContextKey, supervisorSession())

	require.NoError(t, srv.handleChangePassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Old password is incorrect")
}

func TestHandleAddUser_Success(t *testing.T) {
	mock := &mockAuthService{
		addUserFn: func(_ context.Context, caller *domain.Session, username, password, confirm string, role domain.Role) upstream.AuthResult {
			assert.Equal(t, "1", caller.SubjectID)
			assert.Equal(t, "newguy", username)
			assert.Equal(t, domain.RoleSupervisor, role)
			return upstream.AuthResult{OK: true}
		},
	}
	srv := newTestServer(t, mock)

	req := formRequest("/users/new", url.Values{
		"username":         {"newguy"},
		"password":         {"pass123"},
		"confirm_password": {"pass123"},
		"role":             {"supervisor"},
	})
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)
	c.Set(sessionContextKey, adminSession())

	require.NoError(t, srv.handleAddUser(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Created newguy")
}

func TestHandleAddUser_ErrorsShownInline(t *testing.T) {
	mock := &mockAuthService{
		addUserFn: func(_ context.Context, _ *domain.Session, _, _, _ string, _ domain.Role) upstream.AuthResult {
			return upstream.AuthResult{FieldErrors: domain.FieldErrors{
				"username": "A user with that username already exists.",
			}}
		},
	}
	srv := newTestServer(t, mock)

	req := formRequest("/users/new", url.Values{
		"username":         {"dupe"},
		"password":         {"pass123"},
		"confirm_password": {"pass123"},
		"role":             {"supervisor"},
	})
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)
	c.Set(sessionContextKey, adminSession())

	require.NoError(t, srv.handleAddUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "A user with that username already exists.")
}
