// Package web provides the embedded static page served on unmatched routes.
package web

import (
	"embed"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed static/404.html
var staticFiles embed.FS

// RegisterNotFoundPage makes every unmatched route answer 404 with the
// embedded HTML page. API routes must be registered before calling this.
func RegisterNotFoundPage(e *echo.Echo) {
	e.RouteNotFound("/*", func(c echo.Context) error {
		content, err := staticFiles.ReadFile("static/404.html")
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return c.HTMLBlob(http.StatusNotFound, content)
	})
}
