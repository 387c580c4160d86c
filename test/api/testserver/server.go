//go:build api

// Package testserver provides a fully wired test server for API integration tests.
package testserver

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"zeme/internal/authz"
	"zeme/internal/cache"
	"zeme/internal/geocode"
	"zeme/internal/handler"
	"zeme/internal/models"
	"zeme/internal/queue"
	"zeme/internal/repository"
	"zeme/internal/router"
	"zeme/internal/service"
	"zeme/pkg/auth"
	"zeme/pkg/client"
	"zeme/test/api/testdb"

	"github.com/gin-gonic/gin"
)

const (
	// TestAccessTokenSecret is the JWT secret used in tests.
	TestAccessTokenSecret = "test-secret-key-for-api-tests"
	// TestAccessTokenExpiry is the access token expiry time used in tests.
	TestAccessTokenExpiry = 15 * time.Minute
	// TestDBName is the database name used in tests.
	TestDBName = "zeme_api_test"
)

// TestServer holds all dependencies for API integration tests.
type TestServer struct {
	// Router is the Gin engine for making in-process requests.
	Router *gin.Engine
	// HTTP serves Router on a loopback port for pkg/client.
	HTTP *httptest.Server

	// Containers
	MongoDB *testdb.MongoContainer
	Redis   *testdb.RedisContainer
	MinIO   *testdb.MinIOContainer

	// Repositories (for direct database access in tests)
	UserRepo     repository.UserRepository
	ListingRepo  repository.ListingRepository
	FavoriteRepo repository.FavoriteRepository

	// Auth
	JWTManager *auth.JWTManager

	// Geocoding
	Geocoder         *StubGeocoder
	GeocodeQueue     *queue.MemoryQueue
	GeocodeProcessor *queue.Processor
	processorStop    context.CancelFunc
}

// New creates a new test server with all dependencies wired up.
func New(ctx context.Context) (*TestServer, error) {
	gin.SetMode(gin.TestMode)

	// Start containers
	mongoDB, err := testdb.SetupMongoDB(ctx, TestDBName)
	if err != nil {
		return nil, err
	}

	redisContainer, err := testdb.SetupRedis(ctx)
	if err != nil {
		_ = mongoDB.Cleanup(ctx)
		return nil, err
	}

	minioContainer, err := testdb.SetupMinIO(ctx)
	if err != nil {
		_ = mongoDB.Cleanup(ctx)
		_ = redisContainer.Cleanup(ctx)
		return nil, err
	}

	redisCache := cache.NewRedis(redisContainer.URI)
	jwtManager := auth.NewJWTManager(TestAccessTokenSecret, TestAccessTokenExpiry)

	// Repository layer
	userRepo := repository.NewUserRepository(mongoDB.Database)
	listingRepo := repository.NewListingRepository(mongoDB.Database)
	favoriteRepo := repository.NewFavoriteRepository(mongoDB.Database)

	// Geocoding runs against a stub so tests never reach Nominatim
	geocoder := NewStubGeocoder()
	geocodeQueue := queue.NewMemoryQueue(100)
	geocodeProcessor := queue.NewProcessor(geocodeQueue, geocoder, listingRepo, 2)

	// Service layer
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:   userRepo,
		JWTManager: jwtManager,
	})
	userService := service.NewUserService(userRepo, redisCache)
	listingService := service.NewListingService(listingRepo, favoriteRepo, geocodeProcessor)
	favoriteService := service.NewFavoriteService(favoriteRepo, listingRepo, userRepo)
	uploadService := service.NewUploadService(minioContainer.Storage)
	locationService := service.NewLocationService(geocoder, geocode.NYC())

	r := router.Setup(&router.Config{
		AuthHandler:     handler.NewAuthHandler(authService),
		UserHandler:     handler.NewUserHandler(userService),
		ListingHandler:  handler.NewListingHandler(listingService),
		FavoriteHandler: handler.NewFavoriteHandler(favoriteService),
		UploadHandler:   handler.NewUploadHandler(uploadService),
		LocationHandler: handler.NewLocationHandler(locationService),
		JWTManager:      jwtManager,
		Authorizer:      authz.NewLocalAuthorizer(listingRepo),
	})

	procCtx, procCancel := context.WithCancel(context.Background())
	geocodeProcessor.Start(procCtx)

	return &TestServer{
		Router:           r,
		HTTP:             httptest.NewServer(r),
		MongoDB:          mongoDB,
		Redis:            redisContainer,
		MinIO:            minioContainer,
		UserRepo:         userRepo,
		ListingRepo:      listingRepo,
		FavoriteRepo:     favoriteRepo,
		JWTManager:       jwtManager,
		Geocoder:         geocoder,
		GeocodeQueue:     geocodeQueue,
		GeocodeProcessor: geocodeProcessor,
		processorStop:    procCancel,
	}, nil
}

// Client returns an API client for the running server, authenticated when token is set.
func (ts *TestServer) Client(token string) *client.Client {
	opts := []client.Option{client.WithTimeout(10 * time.Second)}
	if token != "" {
		opts = append(opts, client.WithToken(token))
	}
	return client.New(ts.HTTP.URL+"/api/v1", opts...)
}

// Cleanup stops background workers and terminates all containers.
func (ts *TestServer) Cleanup(ctx context.Context) {
	if ts.HTTP != nil {
		ts.HTTP.Close()
	}
	if ts.processorStop != nil {
		ts.processorStop()
		ts.GeocodeProcessor.Stop()
	}
	if ts.MinIO != nil {
		_ = ts.MinIO.Cleanup(ctx)
	}
	if ts.Redis != nil {
		_ = ts.Redis.Cleanup(ctx)
	}
	if ts.MongoDB != nil {
		_ = ts.MongoDB.Cleanup(ctx)
	}
}

// StubGeocoder answers every query with a fixed point and records the queries.
type StubGeocoder struct {
	mu      sync.Mutex
	queries []string
	Point   models.Coordinates
}

// NewStubGeocoder returns a stub resolving to Midtown Manhattan.
func NewStubGeocoder() *StubGeocoder {
	return &StubGeocoder{Point: models.Coordinates{Lat: 40.7484, Lng: -73.9857}}
}

// Search implements geocode.Service.
func (g *StubGeocoder) Search(ctx context.Context, query string) ([]models.Candidate, error) {
	g.mu.Lock()
	g.queries = append(g.queries, query)
	g.mu.Unlock()

	return []models.Candidate{{
		DisplayName: strings.TrimSpace(query) + ", New York City",
		Lat:         g.Point.Lat,
		Lng:         g.Point.Lng,
		Type:        "house",
		Importance:  0.5,
	}}, nil
}

// Queries returns the queries received so far.
func (g *StubGeocoder) Queries() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.queries))
	copy(out, g.queries)
	return out
}
