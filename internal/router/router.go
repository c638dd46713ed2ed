package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/profile-directory/internal/config"
	"github.com/stemsi/profile-directory/internal/handler"
	"github.com/stemsi/profile-directory/internal/middleware"
	"github.com/stemsi/profile-directory/internal/response"
	"github.com/stemsi/profile-directory/internal/service"
	"github.com/stemsi/profile-directory/internal/web"
)

// staticMaxAge is the cache lifetime of the embedded stylesheet.
const staticMaxAge = 24 * 60 * 60

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Profile *handler.ProfileHandler
	Admin   *handler.AdminHandler
	Page    *handler.PageHandler
	WS      *handler.WSHandler
	System  *handler.SystemHandler
}

// SetupRouter configures the directory's route groups. signInLimiter guards
// both sign-in endpoints; the caller owns its lifecycle.
func SetupRouter(handlers *Handlers, signInLimiter *middleware.RateLimiter, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(corsConfig(cfg)))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Brotli())
	router.Use(middleware.LoadSession())

	router.SetHTMLTemplate(web.Templates())

	staticGroup := router.Group("/static")
	staticGroup.Use(middleware.CacheControl(staticMaxAge))
	{
		staticGroup.StaticFS("/", web.Static())
	}

	router.GET("/health", handlers.System.Health)

	// ─── 1. Public JSON API ────────────────────────────────────────────
	publicAPI := router.Group("/api/profiles")
	{
		publicAPI.GET("", handlers.Profile.ListProfiles)
		publicAPI.GET("/:id", handlers.Profile.GetProfile)
	}

	// ─── 2. Admin Auth (rate limited) ──────────────────────────────────
	auth := router.Group("/api/admin")
	auth.Use(middleware.NoStore())
	{
		auth.POST("/signin", signInLimiter.Middleware(), handlers.Auth.SignIn)
		auth.POST("/signout", handlers.Auth.SignOut)
	}

	// ─── 3. Admin JSON API (token required) ────────────────────────────
	adminAPI := router.Group("/api/admin/profiles")
	adminAPI.Use(middleware.NoStore(), middleware.RequireAdminToken())
	{
		adminAPI.GET("", handlers.Admin.ListProfiles)
		adminAPI.POST("", handlers.Admin.CreateProfile)
		adminAPI.GET("/:id", handlers.Admin.GetProfile)
		adminAPI.PUT("/:id", handlers.Admin.UpdateProfile)
		adminAPI.DELETE("/:id", handlers.Admin.DeleteProfile)
	}

	// ─── 4. WebSocket (token required) ─────────────────────────────────
	ws := router.Group("/ws/admin")
	ws.Use(middleware.RequireAdminToken())
	{
		ws.GET("/events", handlers.WS.AdminEvents)
	}

	// ─── 5. Public pages ───────────────────────────────────────────────
	router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/profiles") })
	router.GET("/profiles", handlers.Page.Profiles)
	router.GET("/profile/:id", handlers.Page.Profile)

	// ─── 6. Admin pages (guarded) ──────────────────────────────────────
	admin := router.Group(middleware.AdminHomePath)
	admin.Use(middleware.NoStore(), middleware.AdminGuard())
	{
		admin.GET("", handlers.Page.Dashboard)
		admin.GET("/signin", handlers.Page.SignInForm)
		admin.POST("/signin", signInLimiter.Middleware(), handlers.Page.SignIn)
		admin.GET("/signout", handlers.Page.SignOut)
		admin.GET("/profiles/:id/edit", handlers.Page.EditForm)
		admin.POST("/profiles", handlers.Page.CreateProfile)
		admin.POST("/profiles/:id", handlers.Page.UpdateProfile)
		admin.POST("/profiles/:id/delete", handlers.Page.DeleteProfile)
	}

	return router
}

// SetupStoreRouter configures the reference profile store. Reads are public;
// mutations require a valid admin JWT.
func SetupStoreRouter(store *handler.StoreHandler, authService *service.AuthService, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg)))
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	profiles := router.Group("/profileDetails")
	{
		profiles.GET("", store.List)
		profiles.GET("/:id", store.Get)
		profiles.POST("", middleware.RequireAdminJWT(authService), store.Create)
		profiles.PUT("/:id", middleware.RequireAdminJWT(authService), store.Update)
		profiles.DELETE("/:id", middleware.RequireAdminJWT(authService), store.Delete)
	}

	return router
}

// corsConfig restricts origins to cfg.AllowedOrigins when set and allows all
// otherwise, so dev works without extra config.
func corsConfig(cfg *config.Config) cors.Config {
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}
