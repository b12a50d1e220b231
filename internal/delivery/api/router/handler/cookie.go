package handler

import (
	"net/http"
	"time"

	"marketplace/config"

	"github.com/labstack/echo/v4"
)

// TokenCookieName is the cookie carrying the session token for browser clients.
const TokenCookieName = "token"

type tokenCookie struct {
	maxAge time.Duration
	secure bool
}

func newTokenCookie(cfg *config.Config) tokenCookie {
	return tokenCookie{
		maxAge: cfg.JWT.CookieMaxAge(),
		secure: cfg.IsProduction(),
	}
}

func (tc tokenCookie) set(c echo.Context, token string) {
	c.SetCookie(tc.build(token, int(tc.maxAge/time.Second)))
}

// clear expires the cookie with the same attributes it was set with.
func (tc tokenCookie) clear(c echo.Context) {
	c.SetCookie(tc.build("", -1))
}

func (tc tokenCookie) build(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     TokenCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   tc.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
