package documents

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the document routes on the Echo instance. Echo
// gives static segments ("/new", "/create") priority over the ":filename"
// parameter routes, so registration order does not matter.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/", h.Index)
	e.GET("/new", h.NewForm)
	e.POST("/create", h.Create)
	e.GET("/:filename", h.Show)
	e.GET("/:filename/edit", h.EditForm)
	e.POST("/:filename", h.Update)
	e.POST("/:filename/delete", h.Delete)
}
