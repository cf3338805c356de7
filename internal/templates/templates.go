// Package templates holds the embedded HTML views and the echo.Renderer
// that executes them. Views share the "top" and "bottom" layout partials,
// which render the navigation, the signed-in state, and the one-shot flash
// message.
package templates

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed views/*.html
var viewsFS embed.FS

// Renderer implements echo.Renderer over the embedded views.
type Renderer struct {
	templates *template.Template
}

// New parses the embedded views. Panics on a malformed template, which can
// only happen at build time since the views are compiled into the binary.
func New() *Renderer {
	return &Renderer{
		templates: template.Must(template.ParseFS(viewsFS, "views/*.html")),
	}
}

// Render executes the named view with the given data.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
