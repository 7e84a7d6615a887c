package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vidhub/account-service/internal/api/handler"
	"github.com/vidhub/account-service/internal/api/metrics"
	"github.com/vidhub/account-service/internal/core/domain"
	"github.com/vidhub/account-service/internal/core/ports"
)

const accessTokenCookie = "accessToken"

// Authenticate resolves the access token to a user and attaches the sanitized
// user to both the echo context and the request context. The token is read
// from the accessToken cookie first and the Authorization bearer header
// second.
func Authenticate(auth ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := accessToken(c)
			if token == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized request")
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("rejected").Inc()
				return err
			}

			c.Set(handler.UserContextKey, user)
			req := c.Request()
			c.SetRequest(req.WithContext(domain.WithPublicUser(req.Context(), user)))

			return next(c)
		}
	}
}

func accessToken(c echo.Context) string {
	if ck, err := c.Cookie(accessTokenCookie); err == nil && strings.TrimSpace(ck.Value) != "" {
		return strings.TrimSpace(ck.Value)
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
