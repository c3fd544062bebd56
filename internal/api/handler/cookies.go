package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/codedocs/snippets-api/internal/core/domain"
)

// Cookie names shared by the HTTP API and the realtime gateway.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// CookieConfig carries the environment-dependent cookie attributes.
// Secure is on in production; HttpOnly, Path=/, and SameSite=Lax are
// always set.
type CookieConfig struct {
	Secure bool
}

// SetAuthCookies attaches both token cookies, each expiring with its
// token.
func (cc CookieConfig) SetAuthCookies(c echo.Context, pair *domain.TokenPair) {
	cc.SetAccessCookie(c, pair)
	cc.SetRefreshCookie(c, pair)
}

func (cc CookieConfig) SetAccessCookie(c echo.Context, pair *domain.TokenPair) {
	c.SetCookie(cc.newCookie(AccessTokenCookie, pair.Access, pair.AccessExpiresAt))
}

func (cc CookieConfig) SetRefreshCookie(c echo.Context, pair *domain.TokenPair) {
	c.SetCookie(cc.newCookie(RefreshTokenCookie, pair.Refresh, pair.RefreshExpiresAt))
}

// ClearAuthCookies deletes both token cookies.
func (cc CookieConfig) ClearAuthCookies(c echo.Context) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		cookie := cc.newCookie(name, "", time.Time{})
		cookie.MaxAge = -1
		c.SetCookie(cookie)
	}
}

func (cc CookieConfig) newCookie(name, value string, expiresAt time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if !expiresAt.IsZero() {
		cookie.MaxAge = int(time.Until(expiresAt).Seconds())
	}
	return cookie
}
