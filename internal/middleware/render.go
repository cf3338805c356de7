package middleware

import (
	"github.com/labstack/echo/v4"
)

// PageInjector copies per-request page data (popped flash message, current
// user, CSRF token) into the template data map before rendering. Registered
// once at startup in internal/app.
//
// The callback pattern keeps this package from importing the session store.
var PageInjector func(echo.Context, map[string]any)

// Render renders a named view with the given status code. Page-level data
// shared by every view is injected via PageInjector; reading the flash here
// is what clears it, giving the message its show-once semantics.
func Render(c echo.Context, statusCode int, view string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	if PageInjector != nil {
		PageInjector(c, data)
	}
	return c.Render(statusCode, view, data)
}
