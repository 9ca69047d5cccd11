package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mikino-app/mikino-server/internal/handler"
	"github.com/mikino-app/mikino-server/internal/middleware"
)

// RegisterSocial registers the friend graph and ping inbox endpoints under
// /v1.  Every route requires a valid JWT.
func RegisterSocial(e *echo.Echo, f *handler.FriendHandler, p *handler.PingHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	// ---- Friends ----
	g.GET("/friends", f.List)
	g.POST("/friends/requests", f.Request)
	g.GET("/friends/requests", f.Pending)
	g.POST("/friends/requests/:id/accept", f.Accept)
	g.POST("/friends/requests/:id/decline", f.Decline)

	// ---- Pings ----
	g.POST("/pings", p.Send)
	g.GET("/pings", p.List)
	g.DELETE("/pings/:id", p.Dismiss)
	g.POST("/pings/showtimes/:showtime_id/seen", p.MarkSeen)
	g.DELETE("/pings/showtimes/:showtime_id", p.DismissShowtime)
}
