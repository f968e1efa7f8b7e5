package httpserver

import (
	"encoding/csv"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/suhangowda96/dairyfarm/internal/platform/errors"
)

// exportHandler streams the current screen's rows as a CSV download. The
// same search filter as the list view applies, so exporting after a search
// yields exactly the rows on screen.
func exportHandler[T any](s *Server, sc screen[T]) echo.HandlerFunc {
	return func(c echo.Context) error {
		records, err := fetchFiltered(s, c, sc)
		if err != nil {
			return err
		}

		res := c.Response()
		res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
		res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+sc.slug+`.csv"`)
		res.WriteHeader(http.StatusOK)

		w := csv.NewWriter(res)
		if err := w.Write(sc.columns); err != nil {
			return apperrors.InternalError("failed to write csv header", err)
		}
		for _, rec := range records {
			if err := w.Write(sc.row(rec)); err != nil {
				return apperrors.InternalError("failed to write csv row", err)
			}
		}
		w.Flush()
		return w.Error()
	}
}
