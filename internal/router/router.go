package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/artgalerie/gallery-api/internal/config"
	"github.com/artgalerie/gallery-api/internal/handler"
	"github.com/artgalerie/gallery-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check
// used by load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.  The open
// endpoints (register, login, refresh, logout and the password reset
// flow) live under /v1/auth; /v1/auth/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token: the presented token is revoked
	// and a brand new pair is returned.
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)

	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterCatalog registers the public browse endpoints for artworks,
// events, workshops and comments.  Read endpoints are wrapped in the
// Redis response cache so hot catalog pages do not hit MySQL on every
// request; a nil Redis client turns the cache into a pass-through.
func RegisterCatalog(e *echo.Echo, art *handler.ArtworkHandler, ev *handler.EventHandler,
	ws *handler.WorkshopHandler, cm *handler.CommentHandler, rdb *redis.Client, cacheCfg config.CacheConfig) {

	cached := middleware.ResponseCache(rdb, cacheCfg)

	e.GET("/v1/artworks", art.List, cached)
	e.GET("/v1/artworks/:id", art.Get, cached)

	e.GET("/v1/events", ev.List, cached)
	e.GET("/v1/events/:id", ev.Get, cached)
	e.GET("/v1/events/:id/ratings", ev.ListRatings, cached)
	// Visitors can rate events without an account; the star value is
	// validated by the handler.
	e.POST("/v1/events/:id/ratings", ev.CreateRating)

	e.GET("/v1/workshops", ws.List, cached)
	e.GET("/v1/workshops/:id", ws.Get, cached)

	// Comments are posted anonymously and pass through AI moderation
	// before being stored.
	e.GET("/v1/comments", cm.List)
	e.GET("/v1/comments/:id", cm.Get)
	e.POST("/v1/comments", cm.Create)
}

// RegisterReservations registers the reservation endpoints.  Creating a
// reservation is open to visitors; managing existing reservations is a
// gallery-side concern and requires an authenticated artist account.
func RegisterReservations(e *echo.Echo, r *handler.ReservationHandler, reg *handler.RegistrationHandler, jwtSecret string) {
	e.POST("/v1/reservations", r.Create)
	e.POST("/v1/registrations", reg.Create)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireCategory("artist"))
	auth.GET("/reservations", r.List)
	auth.GET("/reservations/:id", r.Get)
	auth.PATCH("/reservations/:id", r.Update)
	auth.DELETE("/reservations/:id", r.Delete)

	auth.GET("/registrations", reg.List)
	auth.DELETE("/registrations/:id", reg.Delete)
}

// RegisterAdmin registers the gallery management endpoints: catalog
// writes and comment moderation.  All of them require an authenticated
// artist account.
func RegisterAdmin(e *echo.Echo, art *handler.ArtworkHandler, ev *handler.EventHandler,
	ws *handler.WorkshopHandler, cm *handler.CommentHandler, jwtSecret string) {

	admin := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireCategory("artist"))

	admin.POST("/artworks", art.Create)
	admin.PUT("/artworks/:id", art.Update)
	admin.DELETE("/artworks/:id", art.Delete)
	admin.POST("/artworks/:id/analyze-colors", art.AnalyzeColors)

	admin.POST("/events", ev.Create)
	admin.PUT("/events/:id", ev.Update)
	admin.DELETE("/events/:id", ev.Delete)

	admin.POST("/workshops", ws.Create)
	admin.PUT("/workshops/:id", ws.Update)
	admin.DELETE("/workshops/:id", ws.Delete)

	admin.PATCH("/comments/:id/moderate", cm.Moderate)
	admin.DELETE("/comments/:id", cm.Delete)
}

// RegisterAI registers the AI collaborator endpoints.  They are rate
// limited per client IP because each request costs an upstream model
// call.
func RegisterAI(e *echo.Echo, a *handler.AIHandler, rdb *redis.Client, rlCfg config.RateLimitConfig) {
	g := e.Group("/v1/ai", middleware.RateLimit(rdb, rlCfg))
	g.POST("/chat", a.Chat)
	g.POST("/generate-description", a.GenerateDescription)
	g.POST("/moderate", a.ModerateText)
}
