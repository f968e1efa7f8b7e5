package httpserver

import (
	"github.com/labstack/echo/v4"
)

// navItem is one dashboard tile. Admin-only tiles are filtered per session.
type navItem struct {
	Path  string
	Title string
	Admin bool
}

var dashboardItems = []navItem{
	{Path: "/health-records", Title: "Animal Health Records"},
	{Path: "/medicines", Title: "Medicine Administration"},
	{Path: "/shed-checks", Title: "Shed Environment Checks"},
	{Path: "/monthly-summaries", Title: "Vaccination & Breeding Summaries"},
	{Path: "/calf-vaccinations", Title: "Calf Vaccination Schedule"},
	{Path: "/income", Title: "Income Summary", Admin: true},
	{Path: "/staff-performance", Title: "Staff Performance", Admin: true},
	{Path: "/users/new", Title: "Add User", Admin: true},
	{Path: "/settings", Title: "Settings"},
}

func (s *Server) registerDashboardRoutes(csrfMiddleware echo.MiddlewareFunc) {
	s.echo.GET("/dashboard", s.handleDashboard, s.requireSession, csrfMiddleware)
}

func (s *Server) handleDashboard(c echo.Context) error {
	sess := currentSession(c)

	items := make([]navItem, 0, len(dashboardItems))
	for _, item := range dashboardItems {
		if item.Admin && !sess.IsAdmin() {
			continue
		}
		items = append(items, item)
	}

	data := s.newPageData(c)
	data.Data = items
	return s.renderTemplate(c, "dashboard.html", data)
}
