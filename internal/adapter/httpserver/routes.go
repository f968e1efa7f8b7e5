package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/suhangowda96/dairyfarm/internal/adapter/metrics"
)

func (s *Server) registerRoutes() {
	s.echo.Use(requestIDMiddleware)
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(ErrorHandlingMiddleware())
	s.echo.Use(metrics.NewHTTPMetrics(s.registry).Middleware())
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ContentSecurityPolicy: "default-src 'self'; " +
			"script-src 'self' 'unsafe-inline'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"frame-ancestors 'none'",
		ReferrerPolicy: "strict-origin-when-cross-origin",
	}))
	s.echo.Use(s.loadSession)

	csrfMiddleware := s.setupCSRFMiddleware()
	rateLimiter := newRateLimiter(s.config.RateLimitPerSecond, s.config.RateLimitBurst)

	// Root: route by session presence.
	s.echo.GET("/", func(c echo.Context) error {
		if currentSession(c) != nil {
			return c.Redirect(http.StatusFound, defaultAuthedPath)
		}
		return c.Redirect(http.StatusFound, "/login")
	})

	s.registerHealthRoutes()
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler(s.registry)))

	s.registerAuthRoutes(csrfMiddleware, rateLimiter)
	s.registerSettingsRoutes(csrfMiddleware, rateLimiter)
	s.registerDashboardRoutes(csrfMiddleware)
	s.registerRecordRoutes(csrfMiddleware)
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.InfoContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}

func (s *Server) setupCSRFMiddleware() echo.MiddlewareFunc {
	secure := s.config.AppEnv == "production"
	maxAge := int(s.config.SessionMaxAge.Seconds())

	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:csrf_token,header:X-CSRF-Token",
		CookieName:     "csrf_token",
		CookiePath:     "/",
		CookieMaxAge:   maxAge,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: http.SameSiteStrictMode,
	})
}
