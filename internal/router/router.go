// Package router maps the HTTP surface onto handlers and middleware.  The
// split mirrors the access model: public browse endpoints, session-scoped
// registration endpoints, and an admin subgroup gated on the allow-list.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/aibf/conference-registration/internal/config"
	"github.com/aibf/conference-registration/internal/handler"
	"github.com/aibf/conference-registration/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication at all.
func RegisterRoutes(e *echo.Echo) {
	// Liveness probe for load balancers and uptime checks.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the sign-in exchange and the session endpoints.
// Sign-in and logout are public; /v1/me sits behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/google", a.GoogleSignIn)
	// Logout never requires a valid session: the client may call it with an
	// expired token and must still end up logged out.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.POST("/profile", a.UpdateProfile)
}

// RegisterEvents registers the public event lookup.  The response cache
// keeps repeated page loads off the backend; authentication is optional
// and handled inside the handler.
func RegisterEvents(e *echo.Echo, ev *handler.EventsHandler, rdb *redis.Client) {
	cacheCfg := config.LoadCacheConfig()
	e.GET("/v1/events/latest", ev.GetLatest, middleware.NewRedisCache(cacheCfg, rdb))
}

// RegisterRegistration registers the two-phase workflow endpoints.  All of
// them require a session.  The token bucket sits in front of the group so
// per-keystroke quote traffic and completion retry loops are both bounded.
func RegisterRegistration(e *echo.Echo, r *handler.RegistrationHandler, jwtSecret string, rdb *redis.Client) {
	rlCfg := config.LoadRateLimitConfig()
	g := e.Group("/v1/registration",
		middleware.JWTAuth(jwtSecret),
		middleware.NewTokenBucket(rlCfg, rdb),
	)
	g.POST("/quote", r.Quote)
	g.GET("", r.State)
	g.POST("/details", r.SubmitDetails)
	g.POST("/complete", r.Complete)
	g.DELETE("", r.Abandon)
}

// RegisterAdmin registers organiser-only endpoints behind the email
// allow-list.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string, adminEmails []string) {
	g := e.Group("/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireAdmin(adminEmails),
	)
	g.PATCH("/registrations/:id/payment", a.SetPayment)
}
