package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suhangowda96/dairyfarm/internal/domain"
	"github.com/suhangowda96/dairyfarm/internal/ratelimit"
	"github.com/suhangowda96/dairyfarm/internal/upstream"
)

func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func TestHandleLogin_Success(t *testing.T) {
	var gotUsername, gotPassword string
	var gotRole domain.Role
	mock := &mockAuthService{
		loginFn: func(_ context.Context, username, password string, role domain.Role) upstream.AuthResult {
			gotUsername, gotPassword, gotRole = username, password, role
			return upstream.AuthResult{OK: true, Session: supervisorSession()}
		},
	}
	srv := newTestServer(t, mock)

	req := formRequest("/login", url.Values{
		"username": {"alice"},
		"password": {"secret1"},
		"role":     {"supervisor"},
	})
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	require.NoError(t, srv.handleLogin(c))

	assert.Equal(t, "alice", gotUsername)
	assert.Equal(t, "secret1", gotPassword)
	assert.Equal(t, domain.RoleSupervisor, gotRole)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	// The signed session cookie must be set on success.
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "dairyfarm-session", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestHandleLogin_RejectedShowsErrorsInline(t *testing.T) {
	mock := &mockAuthService{
		loginFn: func(_ context.Context, _, _ string, _ domain.Role) upstream.AuthResult {
			return upstream.AuthResult{FieldErrors: domain.FieldErrors{
				domain.FieldGeneral: "Invalid username or password",
			}}
		},
	}
	srv := newTestServer(t, mock)

	req := formRequest("/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
		"role":     {"supervisor"},
	})
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	require.NoError(t, srv.handleLogin(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username or password")
	assert.Empty(t, rec.Result().Cookies())
}

func TestHandleLogin_RateLimitedAfterRepeatedFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	limiter := ratelimit.NewLoginLimiter(client, clockwork.NewFakeClock(), 1, time.Minute)

	mock := &mockAuthService{
		loginFn: func(_ context.Context, _, _ string, _ domain.Role) upstream.AuthResult {
			return upstream.AuthResult{FieldErrors: domain.FieldErrors{
				domain.FieldGeneral: "Invalid username or password",
			}}
		},
	}
	srv := newTestServer(t, mock, withLimiter(limiter))

	form := url.Values{"username": {"alice"}, "password": {"wrong"}, "role": {"supervisor"}}

	rec := httptest.NewRecorder()
	require.NoError(t, srv.handleLogin(srv.echo.NewContext(formRequest("/login", form), rec)))
	assert.Contains(t, rec.Body.String(), "Invalid username or password")

	rec = httptest.NewRecorder()
	require.NoError(t, srv.handleLogin(srv.echo.NewContext(formRequest("/login", form), rec)))
	assert.Contains(t, rec.Body.String(), "Too many attempts")
}

func TestHandleSignup_Success(t *testing.T) {
	mock := &mockAuthService{
		signupFn: func(_ context.Context, username, password, confirm string, role domain.Role) upstream.AuthResult {
			assert.Equal(t, "bob", username)
			assert.Equal(t, "hunter22", password)
			assert.Equal(t, "hunter22", confirm)
			assert.Equal(t, domain.RoleAdmin, role)
			return upstream.AuthResult{OK: true, Session: adminSession()}
		},
	}
	srv := newTestServer(t, mock)

	req := formRequest("/signup", url.Values{
		"username":         {"bob"},
		"password":         {"hunter22"},
		"confirm_password": {"hunter22"},
		"role":             {"admin"},
	})
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	require.NoError(t, srv.handleSignup(c))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	require.NotEmpty(t, rec.Result().Cookies())
}

func TestHandleSignup_FieldErrorsShownVerbatim(t *testing.T) {
	mock := &mockAuthService{
		signupFn: func(_ context.Context, _, _, _ string, _ domain.Role) upstream.AuthResult {
			return upstream.AuthResult{FieldErrors: domain.FieldErrors{
				"username": "A user with that username already exists.",
			}}
		},
	}
	srv := newTestServer(t, mock)

	req := formRequest("/signup", url.Values{
		"username":         {"bob"},
		"password":         {"hunter22"},
		"confirm_password": {"hunter22"},
		"role":             {"admin"},
	})
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	require.NoError(t, srv.handleSignup(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "A user with that username already exists.")
}

func TestHandleLogout_ClearsSessionCookie(t *testing.T) {
	srv := newTestServer(t, &mockAuthService{})

	req := formRequest("/logout", url.Values{})
	req.AddCookie(sessionCookie(t, srv, supervisorSession()))
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	require.NoError(t, srv.handleLogout(c))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Negative(t, cookies[0].MaxAge)
}

// A fresh session from the store must survive a round trip through the
// login handler and back through the route guard.
func TestLoginThenGuardedPage(t *testing.T) {
	mock := &mockAuthService{
		loginFn: func(_ context.Context, _, _ string, _ domain.Role) upstream.AuthResult {
			return upstream.AuthResult{OK: true, Session: supervisorSession()}
		},
	}
	srv := newTestServer(t, mock)

	req := formRequest("/login", url.Values{
		"username": {"alice"},
		"password": {"secret1"},
		"role":     {"supervisor"},
	})
	rec := httptest.NewRecorder()
	require.NoError(t, srv.handleLogin(srv.echo.NewContext(req, rec)))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	followUp := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	followUp.AddCookie(cookies[0])
	followRec := httptest.NewRecorder()
	srv.echo.ServeHTTP(followRec, followUp)

	assert.Equal(t, http.StatusOK, followRec.Code)
	assert.Contains(t, followRec.Body.String(), "Dashboard")
}
