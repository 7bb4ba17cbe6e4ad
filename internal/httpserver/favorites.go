package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/museofile/internal/middleware"
	"github.com/Skotchmaster/museofile/internal/service"
	"github.com/Skotchmaster/museofile/internal/transport"
	"github.com/Skotchmaster/museofile/pkg/logging"
)

type FavoritesHTTP struct {
	Svc *service.FavoritesService
}

func (h *FavoritesHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.CurrentUser(c)

	favs, err := h.Svc.List(ctx, user.ID)
	if err != nil {
		logging.FromContext(ctx).With("handler", "favorites_list").Error("list_favorites_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list favorites")
	}

	out := transport.FavoritesResponse{
		Count:     len(favs),
		Favorites: make([]transport.FavoriteOut, 0, len(favs)),
	}
	for _, f := range favs {
		out.Favorites = append(out.Favorites, transport.NewFavoriteOut(f))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FavoritesHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorites_add")
	user := middleware.CurrentUser(c)

	var req transport.FavoriteRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_favorite_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	fav, err := h.Svc.Add(ctx, user.ID, service.FavoriteInput{
		MuseumID:   req.ID,
		Name:       req.Name,
		City:       req.City,
		Department: req.Department,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrConflict):
			return echo.NewHTTPError(http.StatusConflict, "museum already in favorites")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot add favorite")
		}
	}

	return c.JSON(http.StatusCreated, transport.AddFavoriteResponse{
		Message:  "museum added to favorites",
		Favorite: transport.NewFavoriteOut(*fav),
	})
}

func (h *FavoritesHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.CurrentUser(c)

	if err := h.Svc.Remove(ctx, user.ID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "favorite not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot remove favorite")
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "museum removed from favorites"})
}
