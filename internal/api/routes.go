// routes.go - route registration
package api

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the API routes with the Echo instance.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/health", h.HandleHealth)
	e.POST("/upload", h.HandleUpload)
	e.GET("/status/:uid", h.HandleStatus)
}
