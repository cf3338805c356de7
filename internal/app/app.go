// Package app is the application bootstrap and dependency injection root.
// It creates and holds the shared infrastructure (Redis client, session
// store, Echo instance) and wires together the auth and document handlers.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/tmcfarlane/inkwell/internal/apperror"
	"github.com/tmcfarlane/inkwell/internal/config"
	"github.com/tmcfarlane/inkwell/internal/middleware"
	"github.com/tmcfarlane/inkwell/internal/session"
	"github.com/tmcfarlane/inkwell/internal/templates"
)

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// Redis is the Redis client backing session state.
	Redis *redis.Client

	// Sessions is the Redis-backed session store.
	Sessions *session.Store

	// Echo is the HTTP server instance.
	Echo *echo.Echo
}

// New creates a new App instance with the given dependencies and configures
// the Echo server with global middleware, the view renderer, and the
// central error handler.
func New(cfg *config.Config, rdb *redis.Client) *App {
	e := echo.New()

	// Disable Echo's default banner and startup message -- we log our own.
	e.HideBanner = true
	e.HidePort = true

	e.Renderer = templates.New()

	app := &App{
		Config:   cfg,
		Redis:    rdb,
		Sessions: session.NewStore(rdb, cfg.Session.TTL),
		Echo:     e,
	}

	app.setupMiddleware()

	// Every rendered page gets the popped flash message, the signed-in
	// username, and the CSRF token. Popping here is what gives the flash
	// its show-once semantics -- the rendering layer clears it on read.
	middleware.PageInjector = app.injectPageData

	e.HTTPErrorHandler = app.errorHandler

	return app
}

// setupMiddleware registers global middleware on the Echo instance.
// Order matters: outermost (recovery) runs first.
func (a *App) setupMiddleware() {
	// Panic recovery -- outermost so it catches panics from everything else.
	a.Echo.Use(middleware.Recovery())

	// Request logging with method, path, status, latency.
	a.Echo.Use(middleware.RequestLogger())

	// Security headers on every response.
	a.Echo.Use(middleware.SecurityHeaders())

	// CSRF double-submit cookie on all state-changing requests.
	a.Echo.Use(middleware.CSRF())

	// Session cookie -- created on first interaction with the site.
	a.Echo.Use(session.Middleware())
}

// injectPageData copies shared page data into the template data map before
// a view renders. Handler-supplied keys are never overwritten.
func (a *App) injectPageData(c echo.Context, data map[string]any) {
	data["CSRFToken"] = middleware.GetCSRFToken(c)

	if _, ok := data["CurrentUser"]; !ok {
		data["CurrentUser"] = ""
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = ""
	}

	token := session.Token(c)
	if token == "" {
		return
	}

	ctx := c.Request().Context()

	if sess, err := a.Sessions.Get(ctx, token); err == nil {
		data["CurrentUser"] = sess.Username
	} else {
		slog.Error("reading session for page render", slog.Any("error", err))
	}

	if flash, err := a.Sessions.PopFlash(ctx, token); err == nil && flash != "" {
		data["Flash"] = flash
	}
}

// errorHandler is the custom Echo error handler. It maps domain errors
// (AppError) to HTTP responses and renders the error page. 401 errors on
// browser requests redirect to the sign-in form instead.
func (a *App) errorHandler(err error, c echo.Context) {
	// Don't double-write if the response is already committed.
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "An unexpected error occurred"

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
		message = appErr.Message

		// Log internal errors with the underlying cause.
		if appErr.Internal != nil {
			slog.Error("internal error",
				slog.String("type", appErr.Type),
				slog.String("message", appErr.Message),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
			)
		}
	} else {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			// Echo's built-in errors (404 from the router, 403 from CSRF).
			code = echoErr.Code
			if msg, ok := echoErr.Message.(string); ok {
				message = msg
			}
		} else {
			slog.Error("unhandled error",
				slog.Any("error", err),
				slog.String("path", c.Request().URL.Path),
			)
		}
	}

	if code == http.StatusUnauthorized {
		c.Redirect(http.StatusSeeOther, "/users/signin")
		return
	}

	renderErr := middleware.Render(c, code, "error", map[string]any{
		"Code":    code,
		"Message": message,
	})
	if renderErr != nil {
		slog.Error("rendering error page", slog.Any("error", renderErr))
		c.String(code, message)
	}
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting inkwell server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
	)
	return a.Echo.Start(addr)
}
