package auth

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tmcfarlane/inkwell/internal/apperror"
	"github.com/tmcfarlane/inkwell/internal/middleware"
	"github.com/tmcfarlane/inkwell/internal/session"
)

// Handler handles sign-in and sign-out requests.
type Handler struct {
	service  Service
	sessions *session.Store
}

// NewHandler creates a new auth handler.
func NewHandler(service Service, sessions *session.Store) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// SignInForm renders the sign-in form (GET /users/signin).
func (h *Handler) SignInForm(c echo.Context) error {
	return middleware.Render(c, http.StatusOK, "signin", map[string]any{
		"FormUsername": "",
	})
}

// SignIn authenticates the submitted credentials (POST /users/signin).
// Success stores the username in the session and redirects home with a
// welcome flash. Failure re-renders the form with 422 and an error flash,
// keeping the submitted username so the user only retypes the password.
func (h *Handler) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	token := session.Token(c)

	username := c.FormValue("username")
	password := c.FormValue("password")

	ok, err := h.service.Verify(ctx, username, password)
	if err != nil {
		// Config errors (missing/malformed credentials file) are fatal to
		// the attempt and surface as a server error.
		return err
	}

	if !ok {
		slog.Warn("failed sign-in attempt",
			slog.String("username", username),
			slog.String("remote_ip", c.RealIP()),
		)
		if err := h.sessions.SetFlash(ctx, token, "Invalid credentials!"); err != nil {
			return apperror.NewInternal(err)
		}
		return middleware.Render(c, http.StatusUnprocessableEntity, "signin", map[string]any{
			"FormUsername": username,
		})
	}

	if err := h.sessions.SetUsername(ctx, token, username); err != nil {
		return apperror.NewInternal(err)
	}
	if err := h.sessions.SetFlash(ctx, token, "Welcome!"); err != nil {
		return apperror.NewInternal(err)
	}

	slog.Info("user signed in", slog.String("username", username))

	return c.Redirect(http.StatusSeeOther, "/")
}

// SignOut clears the signed-in username (POST /users/signout). Only the
// username is cleared -- the session itself survives so the sign-out flash
// renders on the next page.
func (h *Handler) SignOut(c echo.Context) error {
	ctx := c.Request().Context()
	token := session.Token(c)

	if err := h.sessions.ClearUsername(ctx, token); err != nil {
		return apperror.NewInternal(err)
	}
	if err := h.sessions.SetFlash(ctx, token, "You have been signed out."); err != nil {
		return apperror.NewInternal(err)
	}

	return c.Redirect(http.StatusSeeOther, "/")
}
