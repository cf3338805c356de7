package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tmcfarlane/inkwell/internal/auth"
	"github.com/tmcfarlane/inkwell/internal/documents"
)

// RegisterRoutes sets up all application routes. This is the single place
// where handlers are constructed and the HTTP surface is aggregated.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// Health check endpoint for container orchestration.
	e.GET("/healthz", a.healthz)

	// Sign-in / sign-out.
	authHandler := auth.NewHandler(
		auth.NewService(auth.NewFileStore(a.Config.Storage.CredentialsPath)),
		a.Sessions,
	)
	auth.RegisterRoutes(e, authHandler)

	// Document CRUD, including the home page listing.
	docHandler := documents.NewHandler(
		documents.NewService(documents.NewRepository(a.Config.Storage.DataRoot)),
		a.Sessions,
	)
	documents.RegisterRoutes(e, docHandler)
}

// healthz reports server health, including Redis connectivity.
func (a *App) healthz(c echo.Context) error {
	if err := a.Redis.Ping(c.Request().Context()).Err(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"redis":  err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
