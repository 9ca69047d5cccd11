package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mikino-app/mikino-server/internal/handler"
	"github.com/mikino-app/mikino-server/internal/middleware"
)

// RegisterFilters registers the preset and session filter endpoints under
// /v1.  Every route requires a valid JWT; filter state is strictly
// per-user.
func RegisterFilters(e *echo.Echo, pr *handler.PresetHandler, sf *handler.SessionFilterHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	// ---- Presets ----
	g.GET("/presets", pr.List)
	g.POST("/presets", pr.Save)
	g.DELETE("/presets/:id", pr.Delete)
	g.PUT("/presets/:id/favorite", pr.Favorite)
	g.POST("/presets/:id/apply", pr.Apply)

	// ---- Session filters ----
	g.GET("/session/filters", sf.Get)
	g.PUT("/session/filters", sf.Put)
}
