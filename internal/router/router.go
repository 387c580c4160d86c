// Package router sets up HTTP routes for the API.
package router

import (
	"net/http"

	_ "zeme/swagger" // Import generated swagger docs

	"zeme/internal/authz"
	"zeme/internal/handler"
	"zeme/internal/middleware"
	"zeme/pkg/auth"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Config holds all dependencies needed to set up routes.
type Config struct {
	AuthHandler     *handler.AuthHandler
	UserHandler     *handler.UserHandler
	ListingHandler  *handler.ListingHandler
	FavoriteHandler *handler.FavoriteHandler
	UploadHandler   *handler.UploadHandler
	LocationHandler *handler.LocationHandler
	JWTManager      auth.TokenManager
	Authorizer      authz.Authorizer
}

// Setup creates and configures the Gin router.
func Setup(cfg *Config) *gin.Engine {
	r := gin.Default()

	// Global middleware
	r.Use(middleware.CORS())

	// Swagger docs at /docs
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.Auth(cfg.JWTManager)

	// API v1
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", cfg.AuthHandler.Register)
			authRoutes.POST("/login", cfg.AuthHandler.Login)
			authRoutes.POST("/google", cfg.AuthHandler.Google)
			authRoutes.GET("/me", requireAuth, cfg.UserHandler.Me)
		}

		// User routes (protected)
		users := v1.Group("/users")
		users.Use(requireAuth)
		{
			users.PUT("/me", cfg.UserHandler.UpdateMe)
			users.GET("/:id", cfg.UserHandler.GetUser)
		}

		// Property routes
		properties := v1.Group("/properties")
		{
			properties.POST("/search", cfg.ListingHandler.Search)

			owned := properties.Group("")
			owned.Use(requireAuth)
			{
				owned.POST("", cfg.ListingHandler.Create)
				owned.GET("/mine", cfg.ListingHandler.ListMine)
				owned.GET("/:id", middleware.ListingAuthz(cfg.Authorizer, authz.ActionListingView), cfg.ListingHandler.Get)
				owned.PUT("/:id", middleware.ListingAuthz(cfg.Authorizer, authz.ActionListingUpdate), cfg.ListingHandler.Update)
				owned.PATCH("/:id/status", middleware.ListingAuthz(cfg.Authorizer, authz.ActionListingPublish), cfg.ListingHandler.UpdateStatus)
				owned.DELETE("/:id", middleware.ListingAuthz(cfg.Authorizer, authz.ActionListingDelete), cfg.ListingHandler.Delete)
			}
		}

		// Favorite routes (protected)
		favorites := v1.Group("/favorites")
		favorites.Use(requireAuth)
		{
			favorites.POST("/toggle", cfg.FavoriteHandler.Toggle)
			favorites.GET("", cfg.FavoriteHandler.Get)
			favorites.GET("/properties", cfg.FavoriteHandler.ListListings)
		}

		// Upload routes (protected)
		uploads := v1.Group("/uploads")
		uploads.Use(requireAuth)
		{
			uploads.POST("", cfg.UploadHandler.Upload)
		}

		// Location routes (public)
		locations := v1.Group("/locations")
		{
			locations.GET("/search", cfg.LocationHandler.Search)
			locations.GET("/nyc", cfg.LocationHandler.NYC)
		}
	}

	return r
}
