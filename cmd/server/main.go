package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zeme/internal/authz"
	"zeme/internal/cache"
	"zeme/internal/config"
	"zeme/internal/database"
	"zeme/internal/geocode"
	"zeme/internal/handler"
	"zeme/internal/oauth"
	"zeme/internal/queue"
	"zeme/internal/repository"
	"zeme/internal/router"
	"zeme/internal/scheduler"
	"zeme/internal/service"
	"zeme/internal/storage"
	"zeme/internal/validator"
	"zeme/pkg/auth"

	"github.com/gin-gonic/gin"
)

// @title           Zeme API
// @version         1.0
// @description     Rental listing backend: properties, favorites, uploads and NYC location lookup.

// @contact.name    API Support
// @contact.email   support@example.com

// @host            localhost:8080
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your bearer token in the format: Bearer {token}

// geocodeQueueCapacity bounds pending coordinate lookups.
const geocodeQueueCapacity = 500

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("Configuration loaded")

	// Register custom validators
	validator.RegisterCustomValidators()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Database
	mongoDB := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
	defer mongoDB.Close()

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if failed := database.EnsureIndexes(indexCtx, mongoDB.Database); failed > 0 {
		log.Printf("Warning: %d indexes could not be created", failed)
	}
	indexCancel()

	// Redis Cache
	redisCache := cache.NewRedis(cfg.RedisURI)
	defer redisCache.Close()

	// S3 Storage
	s3Client := storage.NewS3Client(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL, cfg.S3PublicURL)
	bucketCtx, bucketCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := s3Client.EnsureBucket(bucketCtx); err != nil {
		log.Printf("Warning: bucket %s unavailable, uploads will fail: %v", cfg.S3Bucket, err)
	}
	bucketCancel()

	// JWT Manager
	jwtManager := auth.NewJWTManager(cfg.AccessTokenSecret, cfg.AccessTokenExpiry)

	// Repository layer
	userRepo := repository.NewUserRepository(mongoDB.Database)
	listingRepo := repository.NewListingRepository(mongoDB.Database)
	favoriteRepo := repository.NewFavoriteRepository(mongoDB.Database)

	// Authorization
	authorizer := authz.NewLocalAuthorizer(listingRepo)

	// Geocoding: shared client, background queue and nightly backfill
	geocoder := geocode.NewNominatimClient(cfg.GeocoderURL, cfg.GeocoderRatePerSec, redisCache)
	geocodeQueue := queue.NewMemoryQueue(geocodeQueueCapacity)
	geocodeProcessor := queue.NewProcessor(geocodeQueue, geocoder, listingRepo, cfg.GeocodeWorkers)
	backfill := scheduler.NewBackfill(listingRepo, geocodeQueue, cfg.GeocodeBackfillSchedule)

	// Google sign-in is optional
	var google oauth.Provider
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		google = oauth.NewGoogle(oauth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.FrontendURL + "/login",
		})
		log.Println("Google sign-in enabled")
	}

	// Service layer
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:   userRepo,
		JWTManager: jwtManager,
		Google:     google,
	})
	userService := service.NewUserService(userRepo, redisCache)
	listingService := service.NewListingService(listingRepo, favoriteRepo, geocodeProcessor)
	favoriteService := service.NewFavoriteService(favoriteRepo, listingRepo, userRepo)
	uploadService := service.NewUploadService(s3Client)
	locationService := service.NewLocationService(geocoder, geocode.NYC())

	// Handler layer
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	listingHandler := handler.NewListingHandler(listingService)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService)
	uploadHandler := handler.NewUploadHandler(uploadService)
	locationHandler := handler.NewLocationHandler(locationService)

	// Router
	r := router.Setup(&router.Config{
		AuthHandler:     authHandler,
		UserHandler:     userHandler,
		ListingHandler:  listingHandler,
		FavoriteHandler: favoriteHandler,
		UploadHandler:   uploadHandler,
		LocationHandler: locationHandler,
		JWTManager:      jwtManager,
		Authorizer:      authorizer,
	})

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start geocode processor and backfill schedule
	geocodeProcessor.Start(ctx)
	if err := backfill.Start(); err != nil {
		log.Fatalf("Invalid backfill schedule %q: %v", cfg.GeocodeBackfillSchedule, err)
	}

	// Create HTTP server for graceful shutdown support
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Shutdown HTTP server first (drain connections)
	log.Println("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// No new backfill runs; wait for a running one
	log.Println("Stopping backfill scheduler...")
	backfill.Stop()

	// Cancel context to signal processor shutdown
	cancel()

	// Stop geocode processor (waits for workers)
	log.Println("Stopping geocode processor...")
	geocodeProcessor.Stop()
	log.Printf("Geocoding stats: %d resolved, %d dropped", geocodeProcessor.Resolved(), geocodeProcessor.Dropped())

	log.Println("Server shutdown complete")
}
