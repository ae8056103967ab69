// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/seckc/community-api/internal/handler"
	"github.com/seckc/community-api/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication at
// all: the health check and the anonymous identity mint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.POST("/v1/identity", handler.MintIdentity)
}

// RegisterPublic registers the unauthenticated browse endpoints:
// events, resources, the social feed and the site statistics.
func RegisterPublic(e *echo.Echo, ev *handler.EventHandler, res *handler.ResourceHandler, soc *handler.SocialHandler, st *handler.StatsHandler) {
	g := e.Group("/v1")
	g.GET("/events", ev.List)
	g.GET("/events/:id", ev.Get)
	g.GET("/categories", ev.Categories)
	g.GET("/resources", res.List)
	g.GET("/resources/:id", res.Get)
	g.GET("/social/posts", soc.List)
	g.GET("/stats", st.Get)
}

// RegisterRSVP registers the attributed RSVP endpoints.  The group
// accepts either a Bearer token or an X-Anonymous-ID header; the
// AttributedIdentity middleware resolves which identity each request
// acts as.
func RegisterRSVP(e *echo.Echo, h *handler.RSVPHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.AttributedIdentity(jwtSecret))
	g.GET("/rsvps", h.StatusAll)
	g.POST("/rsvps/counts", h.BatchCounts)
	g.GET("/events/:id/rsvp", h.Status)
	g.GET("/events/:id/rsvp/count", h.Count)
	g.POST("/events/:id/rsvp", h.Add)
	g.DELETE("/events/:id/rsvp", h.Remove)
	g.POST("/events/:id/rsvp/toggle", h.Toggle)
}

// RegisterAuth registers the session endpoints.  Register, login and
// the refresh flows live under /v1/auth without middleware; /v1/me and
// its mutations require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, p *handler.ProfileHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout works with either a refresh token in the body or a Bearer
	// token, so it stays outside the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.PATCH("/me", p.UpdateProfile)
	auth.PUT("/me/preferences", p.UpdatePreferences)
}

// RegisterMember registers account-only endpoints: bookmarks and the
// notification inbox.
func RegisterMember(e *echo.Echo, b *handler.BookmarkHandler, n *handler.NotificationHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.GET("/bookmarks", b.List)
	g.POST("/resources/:id/bookmark", b.Add)
	g.DELETE("/resources/:id/bookmark", b.Remove)
	g.GET("/notifications", n.List)
	g.POST("/notifications/:id/read", n.MarkRead)
	g.POST("/notifications/read-all", n.MarkAllRead)
}

// RegisterAdmin registers the organizer CRUD surface.  All routes
// require a valid JWT carrying the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(handler.RoleAdmin),
	)
	g.POST("/events", h.CreateEvent)
	g.PUT("/events/:id", h.UpdateEvent)
	g.DELETE("/events/:id", h.DeleteEvent)
	g.POST("/resources", h.CreateResource)
	g.PUT("/resources/:id", h.UpdateResource)
	g.DELETE("/resources/:id", h.DeleteResource)
	g.POST("/social/posts", h.CreatePost)
	g.DELETE("/social/posts/:id", h.DeletePost)
	g.PUT("/stats", h.UpdateStats)
	g.POST("/stats/refresh-members", h.RefreshMemberCount)
	g.POST("/notifications", h.SendNotification)
}
