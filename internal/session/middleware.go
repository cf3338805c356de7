package session

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// cookieName is the session cookie. It holds only the opaque token; all
// session data lives server-side in Redis.
const cookieName = "inkwell_session"

// contextKeyToken is the Echo context key holding the current session token.
const contextKeyToken = "session_token"

// Middleware returns middleware that guarantees every request has a
// session. If the cookie is missing, a new token is minted and set; the
// Redis record itself is created lazily on the first write. The token is
// stored in the Echo context for handlers to read via Token.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err == nil && cookie.Value != "" {
				c.Set(contextKeyToken, cookie.Value)
				return next(c)
			}

			token, err := NewToken()
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to create session")
			}

			c.SetCookie(&http.Cookie{
				Name:     cookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				Secure:   c.Request().TLS != nil || c.Request().Header.Get("X-Forwarded-Proto") == "https",
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(contextKeyToken, token)

			return next(c)
		}
	}
}

// Token retrieves the current session token from the Echo context. Returns
// the empty string if the middleware is not applied.
func Token(c echo.Context) string {
	token, ok := c.Get(contextKeyToken).(string)
	if !ok {
		return ""
	}
	return token
}
