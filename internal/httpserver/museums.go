package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/museofile/internal/museofile"
	"github.com/Skotchmaster/museofile/internal/service"
	"github.com/Skotchmaster/museofile/internal/transport"
	"github.com/Skotchmaster/museofile/pkg/logging"
)

type MuseumsHTTP struct {
	Svc *service.MuseumService
}

func optionalQuery(c echo.Context, name string) *string {
	if !c.QueryParams().Has(name) {
		return nil
	}
	v := c.QueryParam(name)
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *MuseumsHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "museums_search")

	limit, err := service.ParseLimit(c.QueryParam("limit"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
	}

	filters := transport.SearchFilters{
		City:       optionalQuery(c, "city"),
		Department: optionalQuery(c, "department"),
		Name:       optionalQuery(c, "name"),
	}
	museums, err := h.Svc.Search(ctx, museofile.Filter{
		City:       deref(filters.City),
		Department: deref(filters.Department),
		Name:       deref(filters.Name),
	}, limit)
	if err != nil {
		if errors.Is(err, museofile.ErrUnavailable) {
			l.Warn("search_failed", "status", 502, "error", err)
			return echo.NewHTTPError(http.StatusBadGateway, "museum API unavailable")
		}
		l.Error("search_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return c.JSON(http.StatusOK, transport.MuseumsResponse{
		Filters: filters,
		Count:   len(museums),
		Results: museums,
	})
}
