package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/museofile/internal/middleware"
	"github.com/Skotchmaster/museofile/internal/transport"
	"github.com/Skotchmaster/museofile/pkg/logging"
)

type Deps struct {
	AuthHandler      *AuthHTTP
	FavoritesHandler *FavoritesHTTP
	MuseumsHandler   *MuseumsHTTP
	// Ready reports whether storage is reachable.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Welcome to the Muséofile museum API"})
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		if err := d.Ready(c.Request().Context()); err != nil {
			logging.FromContext(c.Request().Context()).Warn("not_ready", "status", 503, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	e.POST("/users", d.AuthHandler.Register)
	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.GET("/museums", d.MuseumsHandler.Search)

	authMw := middleware.BearerAuth(d.AuthHandler.Svc)

	e.POST("/logout", d.AuthHandler.LogOut, authMw)
	e.GET("/users/me", d.AuthHandler.Me, authMw)
	e.GET("/favorites", d.FavoritesHandler.List, authMw)
	e.POST("/favorites", d.FavoritesHandler.Add, authMw)
	e.DELETE("/favorites/:id", d.FavoritesHandler.Remove, authMw)
}
