// Package router registers the HTTP routes on an Echo instance.  Each
// Register function owns one area of the API and the middleware that
// applies to it.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/nihongo-sekai/internal/handler"
	"github.com/iliyamo/nihongo-sekai/internal/middleware"
	"github.com/iliyamo/nihongo-sekai/internal/model"
)

// RegisterRoutes registers the operational endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers demo sign-in and the current user endpoint.
// middleware.Identity must already be installed on e.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/v1/auth/demo", a.Demo)
	e.GET("/v1/me", a.Me, middleware.RequireUser())
}

// RegisterCatalog registers the listings, item details, enrollment and
// the live search socket.  GET listings go through the response cache;
// the socket does not, since it hijacks the connection.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, live *handler.LiveSearchHandler, cache *middleware.Cache, limit echo.MiddlewareFunc) {
	g := e.Group("/v1", limit)
	cached := g.Group("", cache.Middleware())

	for _, r := range []struct {
		path string
		kind model.Kind
	}{
		{"/courses", model.KindCourse},
		{"/classrooms", model.KindClassroom},
		{"/partners", model.KindTeacher},
		{"/teachers", model.KindTeacher},
	} {
		cached.GET(r.path, h.List(r.kind))
		cached.GET(r.path+"/:id", h.Get(r.kind))
	}

	g.POST("/classrooms/:id/enroll", h.Enroll, middleware.RequireUser())
	g.GET("/search/live", live.Serve)
}

// RegisterVideo registers credential issuance and the call session
// controls.
func RegisterVideo(e *echo.Echo, v *handler.VideoHandler, calls *handler.CallHandler, limit echo.MiddlewareFunc) {
	api := e.Group("/api/video", limit)
	api.POST("/create", v.CreateRoom)
	api.POST("/token", v.Token)

	g := e.Group("/v1/calls/:roomId", limit, middleware.RequireUser())
	g.GET("", calls.Snapshot)
	g.DELETE("", calls.Destroy)
	g.POST("/join", calls.Join)
	g.POST("/leave", calls.Leave)
	g.POST("/recording/start", calls.StartRecording)
	g.POST("/recording/stop", calls.StopRecording)
	g.PUT("/camera", calls.Device("camera"))
	g.PUT("/microphone", calls.Device("microphone"))
	g.GET("/notifications", calls.Notifications)
}
