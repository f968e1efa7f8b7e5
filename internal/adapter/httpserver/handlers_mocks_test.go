package httpserver

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/suhangowda96/dairyfarm/internal/adapter/metrics"
	"github.com/suhangowda96/dairyfarm/internal/domain"
	"github.com/suhangowda96/dairyfarm/internal/platform/config"
	"github.com/suhangowda96/dairyfarm/internal/ratelimit"
	"github.com/suhangowda96/dairyfarm/internal/session"
	"github.com/suhangowda96/dairyfarm/internal/upstream"
)

// --- Mock implementations ---

type mockAuthService struct {
	loginFn          func(ctx context.Context, username, password string, role domain.Role) upstream.AuthResult
	signupFn         func(ctx context.Context, username, password, confirmPassword string, role domain.Role) upstream.AuthResult
	addUserFn        func(ctx context.Context, caller *domain.Session, username, password, confirmPassword string, role domain.Role) upstream.AuthResult
	updateUsernameFn func(ctx context.Context, token, newUsername string) error
	changePasswordFn func(ctx context.Context, token, oldPassword, newPassword, confirmPassword string) error
}

func (m *mockAuthService) Login(ctx context.Context, username, password string, role domain.Role) upstream.AuthResult {
	if m.loginFn != nil {
		return m.loginFn(ctx, username, password, role)
	}
	return upstream.AuthResult{FieldErrors: domain.FieldErrors{domain.FieldGeneral: "not implemented"}}
}

func (m *mockAuthService) Signup(ctx context.Context, username, password, confirmPassword string, role domain.Role) upstream.AuthResult {
	if m.signupFn != nil {
		return m.signupFn(ctx, username, password, confirmPassword, role)
	}
	return upstream.AuthResult{FieldErrors: domain.FieldErrors{domain.FieldGeneral: "not implemented"}}
}

func (m *mockAuthService) AddUser(ctx context.Context, caller *domain.Session, username, password, confirmPassword string, role domain.Role) upstream.AuthResult {
	if m.addUserFn != nil {
		return m.addUserFn(ctx, caller, username, password, confirmPassword, role)
	}
	return upstream.AuthResult{FieldErrors: domain.FieldErrors{domain.FieldGeneral: "not implemented"}}
}

func (m *mockAuthService) UpdateUsername(ctx context.Context, token, newUsername string) error {
	if m.updateUsernameFn != nil {
		return m.updateUsernameFn(ctx, token, newUsername)
	}
	return nil
}

func (m *mockAuthService) ChangePassword(ctx context.Context, token, oldPassword, newPassword, confirmPassword string) error {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(ctx, token, oldPassword, newPassword, confirmPassword)
	}
	return nil
}

// --- Test helpers ---

const testSessionSecret = "test-secret-key-32-bytes-long!!!"

func testTemplates(t *testing.T) *template.Template {
	t.Helper()

	tmpl := template.Must(template.New("login.html").Parse(`Login {{range $k, $v := .Errors}}[{{$k}}: {{$v}}]{{end}}`))
	template.Must(tmpl.New("signup.html").Parse(`Signup {{range $k, $v := .Errors}}[{{$k}}: {{$v}}]{{end}}`))
	template.Must(tmpl.New("forgot_password.html").Parse(`Forgot password`))
	template.Must(tmpl.New("dashboard.html").Parse(`Dashboard {{range .Data}}<{{.Path}}>{{end}}`))
	template.Must(tmpl.New("records.html").Parse(`{{.Data.Title}} rows={{len .Data.Rows}} {{range .Data.Rows}}{{range .Cells}}|{{.}}{{end}}{{end}}`))
	template.Must(tmpl.New("settings.html").Parse(`Settings {{range $k, $v := .Errors}}[{{$k}}: {{$v}}]{{end}}`))
	template.Must(tmpl.New("add_user.html").Parse(`Add user {{range $k, $v := .Errors}}[{{$k}}: {{$v}}]{{end}}`))
	template.Must(tmpl.New("add_user_done.html").Parse(`Created {{.Data}}`))
	return tmpl
}

func newTestServer(t *testing.T, auth authService, opts ...func(*Server)) *Server {
	t.Helper()

	registry := prometheus.NewRegistry()

	srv := &Server{
		echo: echo.New(),
		config: &config.Config{
			AppEnv:             "test",
			SessionMaxAge:      time.Hour,
			RateLimitPerSecond: 1000,
			RateLimitBurst:     1000,
		},
		sessions:    session.New(testSessionSecret, time.Hour, false),
		auth:        auth,
		registry:    registry,
		authMetrics: metrics.NewAuthMetrics(registry),
		templates:   testTemplates(t),
		startTime:   time.Now(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv
}

func withUpstream(api *upstream.Client) func(*Server) {
	return func(s *Server) {
		s.api = api
	}
}

func withLimiter(limiter *ratelimit.LoginLimiter) func(*Server) {
	return func(s *Server) {
		s.limiter = limiter
	}
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

// sessionCookie logs a throwaway request through the store so tests can
// attach a valid signed session cookie to their requests.
func sessionCookie(t *testing.T, srv *Server, sess *domain.Session) *http.Cookie {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, srv.sessions.Set(req, rec, sess))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func supervisorSession() *domain.Session {
	return &domain.Session{
		SubjectID:   "7",
		DisplayName: "alice",
		Token:       "token-abc",
		Role:        domain.RoleSupervisor,
	}
}

func adminSession() *domain.Session {
	return &domain.Session{
		SubjectID:   "1",
		DisplayName: "root",
		Token:       "token-admin",
		Role:        domain.RoleAdmin,
	}
}
