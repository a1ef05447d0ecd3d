package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
	"github.com/sirpyerre/pizza-delivery-api/internal/core/ports"
)

// Context keys set by the middlewares in this package.
const (
	BearerTokenKey = "bearer_token"
	PrincipalKey   = "principal"
)

// Bearer requires an "Authorization: Bearer <token>" header and stores the raw
// token in the context. Verifying it is left to the handler.
func Bearer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request())
			if err != nil {
				return err
			}
			c.Set(BearerTokenKey, token)
			return next(c)
		}
	}
}

// Auth verifies the bearer access token and injects the resolved principal.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request())
			if err != nil {
				return err
			}

			p, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return err
			}

			c.Set(PrincipalKey, p)
			return next(c)
		}
	}
}

func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
