package documents

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tmcfarlane/inkwell/internal/apperror"
	"github.com/tmcfarlane/inkwell/internal/auth"
	"github.com/tmcfarlane/inkwell/internal/middleware"
	"github.com/tmcfarlane/inkwell/internal/render"
	"github.com/tmcfarlane/inkwell/internal/session"
)

// Handler handles HTTP requests for document CRUD. Listing and viewing are
// public; everything that mutates or shows a form requires sign-in.
type Handler struct {
	service  Service
	sessions *session.Store
}

// NewHandler creates a new documents handler.
func NewHandler(service Service, sessions *session.Store) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// Index renders the home page listing all documents (GET /).
func (h *Handler) Index(c echo.Context) error {
	files, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return middleware.Render(c, http.StatusOK, "index", map[string]any{
		"Files": files,
	})
}

// Show renders a document's content (GET /:filename). Plain text and
// unknown extensions are served as raw bytes with the appropriate content
// type; markdown is converted to HTML and rendered inside the site layout.
// A missing document flashes a notice and redirects home.
func (h *Handler) Show(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("filename")

	doc, err := h.service.Get(ctx, name)
	if err != nil {
		if redirectErr, handled := h.flashNotFound(c, err); handled {
			return redirectErr
		}
		return err
	}

	result, err := render.Render(doc.Name, doc.Content)
	if err != nil {
		return apperror.NewInternal(err)
	}

	if result.Kind == render.KindMarkdown {
		return middleware.Render(c, http.StatusOK, "document", map[string]any{
			"Filename": doc.Name,
			"Body":     template.HTML(result.Body),
		})
	}
	return c.Blob(http.StatusOK, result.ContentType, result.Body)
}

// NewForm renders the create-document form (GET /new). Signed-in only.
func (h *Handler) NewForm(c echo.Context) error {
	if done, err := h.guard(c); done {
		return err
	}
	return middleware.Render(c, http.StatusOK, "new", map[string]any{
		"FormFilename": "",
	})
}

// Create creates a new empty document (POST /create). Signed-in only.
// An empty or extensionless name re-renders the form with 422.
func (h *Handler) Create(c echo.Context) error {
	if done, err := h.guard(c); done {
		return err
	}

	ctx := c.Request().Context()
	token := session.Token(c)
	name := c.FormValue("filename")

	if err := h.service.Create(ctx, name); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusUnprocessableEntity {
			if ferr := h.sessions.SetFlash(ctx, token, appErr.Message); ferr != nil {
				return apperror.NewInternal(ferr)
			}
			return middleware.Render(c, http.StatusUnprocessableEntity, "new", map[string]any{
				"FormFilename": name,
			})
		}
		return err
	}

	slog.Info("document created", slog.String("name", name))

	if err := h.sessions.SetFlash(ctx, token, fmt.Sprintf("%s has been successfully created.", name)); err != nil {
		return apperror.NewInternal(err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// EditForm renders the edit form pre-filled with the document's current
// content (GET /:filename/edit). Signed-in only.
func (h *Handler) EditForm(c echo.Context) error {
	if done, err := h.guard(c); done {
		return err
	}

	doc, err := h.service.Get(c.Request().Context(), c.Param("filename"))
	if err != nil {
		if redirectErr, handled := h.flashNotFound(c, err); handled {
			return redirectErr
		}
		return err
	}

	return middleware.Render(c, http.StatusOK, "edit", map[string]any{
		"Filename": doc.Name,
		"Content":  string(doc.Content),
	})
}

// Update overwrites a document's content (POST /:filename). Signed-in only.
func (h *Handler) Update(c echo.Context) error {
	if done, err := h.guard(c); done {
		return err
	}

	ctx := c.Request().Context()
	name := c.Param("filename")

	if err := h.service.Update(ctx, name, []byte(c.FormValue("content"))); err != nil {
		return err
	}

	slog.Info("document updated", slog.String("name", name))

	if err := h.sessions.SetFlash(ctx, session.Token(c), fmt.Sprintf("%s has been successfully updated!", name)); err != nil {
		return apperror.NewInternal(err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// Delete removes a document (POST /:filename/delete). Signed-in only.
// Deleting a missing document flashes the not-found notice instead of
// surfacing a server error.
func (h *Handler) Delete(c echo.Context) error {
	if done, err := h.guard(c); done {
		return err
	}

	ctx := c.Request().Context()
	name := c.Param("filename")

	if err := h.service.Delete(ctx, name); err != nil {
		if redirectErr, handled := h.flashNotFound(c, err); handled {
			return redirectErr
		}
		return err
	}

	slog.Info("document deleted", slog.String("name", name))

	if err := h.sessions.SetFlash(ctx, session.Token(c), fmt.Sprintf("%s has been successfully deleted.", name)); err != nil {
		return apperror.NewInternal(err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// guard checks the sign-in requirement. When the session is anonymous it
// sets the flash, writes the redirect response, and returns done=true so
// the caller returns immediately without running the guarded logic.
func (h *Handler) guard(c echo.Context) (done bool, err error) {
	ctx := c.Request().Context()
	token := session.Token(c)

	sess, err := h.sessions.Get(ctx, token)
	if err != nil {
		return true, apperror.NewInternal(err)
	}

	decision := auth.RequireSignedIn(sess)
	if decision.Allowed {
		return false, nil
	}

	if err := h.sessions.SetFlash(ctx, token, decision.Message); err != nil {
		return true, apperror.NewInternal(err)
	}
	return true, c.Redirect(http.StatusSeeOther, decision.Location)
}

// flashNotFound converts a NotFound error into the user-visible flash plus
// redirect home. Returns handled=false for any other error so the caller
// can surface it to the central error handler.
func (h *Handler) flashNotFound(c echo.Context, err error) (error, bool) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusNotFound {
		return nil, false
	}

	ctx := c.Request().Context()
	if ferr := h.sessions.SetFlash(ctx, session.Token(c), appErr.Message); ferr != nil {
		return apperror.NewInternal(ferr), true
	}
	return c.Redirect(http.StatusSeeOther, "/"), true
}
