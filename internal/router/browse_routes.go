package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mikino-app/mikino-server/internal/handler"
	"github.com/mikino-app/mikino-server/internal/middleware"
)

// RegisterBrowse registers the showtime browse endpoints under /v1.  All
// routes require a valid JWT because results are personalized with the
// caller's attendance, friend counts and session filters.  The optional
// cache middleware is applied to the list endpoints only; mutation routes
// must never serve cached responses.
func RegisterBrowse(e *echo.Echo, h *handler.ShowtimeHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	if cache != nil {
		g.GET("/showtimes", h.Browse, cache)
		g.GET("/cinemas", h.ListCinemas, cache)
	} else {
		g.GET("/showtimes", h.Browse)
		g.GET("/cinemas", h.ListCinemas)
	}
	g.GET("/showtimes/:id", h.Get)
	g.GET("/showtimes/:id/friends", h.FriendAttendance)
	g.PUT("/showtimes/:id/attendance", h.SetAttendance)
}
