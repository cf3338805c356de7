package auth

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the auth routes on the Echo instance. Sign-in
// and sign-out are public by definition.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/users/signin", h.SignInForm)
	e.POST("/users/signin", h.SignIn)
	e.POST("/users/signout", h.SignOut)
}
