package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/museofile/internal/models"
	"github.com/Skotchmaster/museofile/internal/service"
	"github.com/Skotchmaster/museofile/pkg/logging"
)

const (
	userKey  = "user"
	tokenKey = "bearer_token"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

// BearerAuth rejects the request with 401 unless it carries a valid bearer
// token of an existing user. The user is then available via CurrentUser.
func BearerAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("mw", "bearer_auth")

			tok, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				l.Warn("auth_failed", "status", 401, "reason", "missing bearer token")
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			user, err := auth.Authenticate(ctx, tok)
			if err != nil {
				if errors.Is(err, service.ErrUnauthorized) {
					l.Warn("auth_failed", "status", 401, "reason", err.Error())
					return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
				}
				l.Error("auth_failed", "status", 500, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}

			c.Set(userKey, user)
			c.Set(tokenKey, tok)
			return next(c)
		}
	}
}

// CurrentUser returns the user set by BearerAuth, or nil on public routes.
func CurrentUser(c echo.Context) *models.User {
	u, _ := c.Get(userKey).(*models.User)
	return u
}

func CurrentToken(c echo.Context) string {
	t, _ := c.Get(tokenKey).(string)
	return t
}
