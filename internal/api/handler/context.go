package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/pizza-delivery-api/internal/api/middleware"
	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
)

// ctxPrincipal returns the principal injected by the Auth middleware. A
// missing or anonymous principal means the route was mounted without it.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, _ := c.Get(middleware.PrincipalKey).(domain.Principal)
	if !p.Authenticated() {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}

// errInvalidPayload reports a body that does not bind to the request type,
// such as a string or fractional quantity. It is the same failure kind as a
// value rejected by validation.
func errInvalidPayload() error {
	return fmt.Errorf("%w: invalid payload", domain.ErrInvalidInput)
}
