package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "github.com/suhangowda96/dairyfarm/internal/platform/errors"
	"github.com/suhangowda96/dairyfarm/internal/upstream"
)

// formField describes one input of a screen's create/update form.
type formField struct {
	Name    string
	Label   string
	Type    string // text, number, date, select
	Options []string
}

// screen binds one record-keeping view to its farm API resource. Every
// screen renders the same way: list, search, inline create/update form,
// CSV export.
type screen[T any] struct {
	slug      string
	title     string
	resource  string
	adminOnly bool
	columns   []string
	fields    []formField
	id        func(T) int
	row       func(T) []string
	fromForm  func(c echo.Context) (T, error)
}

type recordRow struct {
	ID    int
	Cells []string
}

type recordsPage struct {
	Title   string
	Slug    string
	Query   string
	Columns []string
	Rows    []recordRow
	Fields  []formField
}

func (s *Server) registerRecordRoutes(csrfMiddleware echo.MiddlewareFunc) {
	registerScreen(s, healthRecordsScreen(), csrfMiddleware)
	registerScreen(s, medicinesScreen(), csrfMiddleware)
	registerScreen(s, shedChecksScreen(), csrfMiddleware)
	registerScreen(s, monthlySummariesScreen(), csrfMiddleware)
	registerScreen(s, calfVaccinationsScreen(), csrfMiddleware)
	registerScreen(s, incomeScreen(), csrfMiddleware)
	registerScreen(s, staffPerformanceScreen(), csrfMiddleware)
}

func registerScreen[T any](s *Server, sc screen[T], csrfMiddleware echo.MiddlewareFunc) {
	guard := s.requireSession
	if sc.adminOnly {
		guard = s.requireAdmin
	}

	s.echo.GET("/"+sc.slug, listHandler(s, sc), guard, csrfMiddleware)
	s.echo.POST("/"+sc.slug, createHandler(s, sc), guard, csrfMiddleware)
	s.echo.POST("/"+sc.slug+"/:id", updateHandler(s, sc), guard, csrfMiddleware)
	s.echo.GET("/export/"+sc.slug+".csv", exportHandler(s, sc), guard)
}

// fetchFiltered loads the resource list and applies the case-insensitive
// free-text filter from the q query parameter.
func fetchFiltered[T any](s *Server, c echo.Context, sc screen[T]) ([]T, error) {
	sess := currentSession(c)

	records, err := upstream.List[T](c.Request().Context(), s.api, sess.Token, sc.resource)
	if err != nil {
		return nil, apperrors.UpstreamError("failed to fetch "+sc.resource, err)
	}

	query := strings.TrimSpace(strings.ToLower(c.QueryParam("q")))
	if query == "" {
		return records, nil
	}

	var filtered []T
	for _, rec := range records {
		haystack := strings.ToLower(strings.Join(sc.row(rec), " "))
		if strings.Contains(haystack, query) {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

func listHandler[T any](s *Server, sc screen[T]) echo.HandlerFunc {
	return func(c echo.Context) error {
		records, err := fetchFiltered(s, c, sc)
		if err != nil {
			return err
		}

		page := recordsPage{
			Title:   sc.title,
			Slug:    sc.slug,
			Query:   c.QueryParam("q"),
			Columns: sc.columns,
			Fields:  sc.fields,
		}
		for _, rec := range records {
			page.Rows = append(page.Rows, recordRow{ID: sc.id(rec), Cells: sc.row(rec)})
		}

		data := s.newPageData(c)
		data.Data = page
		return s.renderTemplate(c, "records.html", data)
	}
}

func createHandler[T any](s *Server, sc screen[T]) echo.HandlerFunc {
	return func(c echo.Context) error {
		record, err := sc.fromForm(c)
		if err != nil {
			return apperrors.ValidationError(err.Error())
		}

		sess := currentSession(c)
		if _, err := upstream.Create(c.Request().Context(), s.api, sess.Token, sc.resource, record); err != nil {
			return apperrors.UpstreamError("failed to create "+sc.resource+" record", err)
		}

		return c.Redirect(http.StatusFound, "/"+sc.slug)
	}
}

func updateHandler[T any](s *Server, sc screen[T]) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return apperrors.ValidationError("record id must be a number")
		}

		record, err := sc.fromForm(c)
		if err != nil {
			return apperrors.ValidationError(err.Error())
		}

		sess := currentSession(c)
		if _, err := upstream.Update(c.Request().Context(), s.api, sess.Token, sc.resource, id, record); err != nil {
			return apperrors.UpstreamError("failed to update "+sc.resource+" record", err)
		}

		return c.Redirect(http.StatusFound, "/"+sc.slug)
	}
}
