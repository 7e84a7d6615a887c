package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vidhub/account-service/internal/core/domain"
	"github.com/vidhub/account-service/pkg/logger"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"status", "message", "success": false}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Status: code, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	code := statusFor(err)
	if code != http.StatusInternalServerError {
		return code, clientMessage(err, code)
	}

	// Log the real cause; only a classified message reaches the client.
	reqLog := logger.FromContext(c.Request().Context(), log)
	reqLog.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	var de *domain.Error
	if errors.As(err, &de) && de.Message != "" {
		return code, de.Message
	}
	return code, "internal server error"
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInternal):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrRefreshTokenMismatch):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// clientMessage prefers the message of a classified error over the wrapped
// chain, which may carry infrastructure detail.
func clientMessage(err error, code int) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Error()
	}
	return statusText(err, code)
}

// statusText names the sentinel kind, or falls back to the status line for
// kinds whose text is internal (a refresh-slot mismatch).
func statusText(err error, code int) string {
	for _, kind := range []error{
		domain.ErrInvalidInput,
		domain.ErrUserExists,
		domain.ErrUserNotFound,
		domain.ErrUnauthorized,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return http.StatusText(code)
}
