package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vidhub/account-service/internal/core/domain"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// CookieConfig controls the session cookies. Secure is false only for local
// development over plain HTTP.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (cc CookieConfig) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (cc CookieConfig) setSession(c echo.Context, tokens domain.TokenPair) {
	c.SetCookie(cc.cookie(accessTokenCookie, tokens.AccessToken, cc.AccessTTL))
	c.SetCookie(cc.cookie(refreshTokenCookie, tokens.RefreshToken, cc.RefreshTTL))
}

func (cc CookieConfig) clearSession(c echo.Context) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		ck := cc.cookie(name, "", 0)
		ck.MaxAge = -1
		c.SetCookie(ck)
	}
}
