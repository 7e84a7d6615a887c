package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidhub/account-service/internal/core/domain"
)

// UserContextKey is the echo.Context key the Authenticate middleware stores
// the sanitized user under.
const UserContextKey = "user"

// ctxUser returns the identity attached by the Authenticate middleware. The
// echo context is checked first and the request context second; absence
// means the route was wired without the middleware.
func ctxUser(c echo.Context) (*domain.PublicUser, error) {
	if u, ok := c.Get(UserContextKey).(*domain.PublicUser); ok && u != nil {
		return u, nil
	}
	if u, ok := domain.PublicUserFromContext(c.Request().Context()); ok {
		return u, nil
	}
	return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized request")
}
