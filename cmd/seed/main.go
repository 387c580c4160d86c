package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"zeme/internal/config"
	"zeme/internal/database"
	"zeme/internal/models"
	"zeme/internal/repository"
	"zeme/internal/storage"
	"zeme/pkg/auth"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// seedImagesPerListing satisfies the publish minimum.
const seedImagesPerListing = 5

// placeholderPNG is a 1x1 transparent PNG.
var placeholderPNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89, 0x00, 0x00, 0x00,
	0x0D, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82,
}

type seedListing struct {
	address   string
	bedrooms  float64
	bathrooms float64
	rent      float64
	amenities []string
	coords    *models.Coordinates
	published bool
}

func main() {
	log.Println("Starting seed...")

	// Load config
	cfg := config.Load()

	// Connect to MongoDB
	mongoDB := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
	defer mongoDB.Close()

	// Connect to S3/MinIO
	s3Client := storage.NewS3Client(
		cfg.S3Endpoint,
		cfg.S3AccessKey,
		cfg.S3SecretKey,
		cfg.S3Bucket,
		cfg.S3UseSSL,
		cfg.S3PublicURL,
	)

	ctx := context.Background()

	clearCollections(ctx, mongoDB.Database)
	database.EnsureIndexes(ctx, mongoDB.Database)

	if err := s3Client.EnsureBucket(ctx); err != nil {
		log.Printf("Warning: Failed to ensure bucket: %v", err)
	}

	users := seedUsers(ctx, repository.NewUserRepository(mongoDB.Database))
	images := uploadPlaceholderImages(ctx, s3Client)
	listingIDs := seedListings(ctx, repository.NewListingRepository(mongoDB.Database), users[1], images)
	seedFavorites(ctx, repository.NewFavoriteRepository(mongoDB.Database), users[0], listingIDs)

	log.Println("Seed completed successfully!")
}

func clearCollections(ctx context.Context, db *mongo.Database) {
	for _, name := range []string{database.UsersCollection, database.ListingsCollection, database.FavoritesCollection} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s: %v", name, err)
		}
	}
}

func seedUsers(ctx context.Context, repo repository.UserRepository) []primitive.ObjectID {
	password, err := auth.HashPassword("password123")
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	users := []*models.User{
		{
			FirstName: "Alice",
			LastName:  "Renter",
			Phone:     "+1 212 555 0101",
			Email:     "alice@example.com",
			Password:  password,
			Role:      models.RoleRenter,
		},
		{
			FirstName:      "Bob",
			LastName:       "Agent",
			Phone:          "+1 212 555 0102",
			Email:          "bob@example.com",
			Password:       password,
			Role:           models.RoleAgent,
			CompanyName:    "Hudson Realty",
			CompanyAddress: "10 Hudson Yards, New York, NY",
			LicenseNumber:  "NY-10442",
		},
		{
			FirstName:      "Carol",
			LastName:       "Landlord",
			Phone:          "+1 718 555 0103",
			Email:          "carol@example.com",
			Password:       password,
			Role:           models.RoleLandlord,
			CompanyName:    "Carol Holdings LLC",
			CompanyAddress: "200 Atlantic Ave, Brooklyn, NY",
			LicenseNumber:  "NY-20881",
		},
	}

	ids := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		if err := repo.Create(ctx, u); err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.Email, err)
		}
		ids = append(ids, u.ID)
	}

	log.Printf("Seeded %d users", len(ids))
	return ids
}

// uploadPlaceholderImages uploads placeholder images to S3 and returns their URLs.
func uploadPlaceholderImages(ctx context.Context, s3Client *storage.S3Client) []string {
	urls := make([]string, 0, seedImagesPerListing)
	for i := 0; i < seedImagesPerListing; i++ {
		key := fmt.Sprintf("uploads/seed-%d.png", i)
		err := s3Client.PutObject(ctx, key, bytes.NewReader(placeholderPNG), int64(len(placeholderPNG)), "image/png")
		if err != nil {
			log.Printf("Warning: Failed to upload %s: %v", key, err)
		}
		urls = append(urls, s3Client.URL(key))
	}

	log.Printf("Uploaded %d placeholder images", len(urls))
	return urls
}

func seedListings(ctx context.Context, repo repository.ListingRepository, owner primitive.ObjectID, images []string) []primitive.ObjectID {
	available := time.Now().AddDate(0, 1, 0).Truncate(24 * time.Hour)

	seeds := []seedListing{
		{"350 5th Ave, New York, NY", 0, 1, 2400, []string{"doorman", "elevator"}, &models.Coordinates{Lat: 40.7484, Lng: -73.9857}, true},
		{"1 Bedford Ave, Brooklyn, NY", 1, 1, 2900, []string{"laundry"}, &models.Coordinates{Lat: 40.7223, Lng: -73.9575}, true},
		{"45-02 Vernon Blvd, Queens, NY", 2, 1.5, 3400, []string{"gym", "doorman"}, nil, true},
		{"2400 Grand Concourse, Bronx, NY", 3, 2, 3100, []string{"parking"}, nil, true},
		{"500 W 42nd St, New York, NY", 5, 3, 7800, []string{"doorman", "gym", "roof deck"}, &models.Coordinates{Lat: 40.7594, Lng: -73.9960}, true},
		{"12 Richmond Terrace, Staten Island, NY", 2, 1, 0, nil, nil, false},
	}

	ids := make([]primitive.ObjectID, 0, len(seeds))
	for _, s := range seeds {
		l := &models.Listing{
			Owner:       owner,
			Status:      models.StatusDraft,
			ListingType: models.DefaultListingType,
			BasicInformation: models.BasicInformation{
				Address:     s.address,
				Bedrooms:    f64(s.bedrooms),
				Bathrooms:   f64(s.bathrooms),
				Coordinates: s.coords,
			},
			Amenities: nonNil(s.amenities),
			DocumentRequirements: models.DocumentRequirements{
				RequiredDocuments: []string{"photoId"},
				OptionalDocuments: []string{},
			},
			Images: []string{},
		}
		if s.published {
			l.Status = models.StatusPublished
			l.BasicInformation.DateAvailable = &available
			l.EconomicInformation = models.EconomicInformation{
				GrossRent:             f64(s.rent),
				SecurityDepositAmount: f64(s.rent),
				BrokerFee:             f64(0),
			}
			l.Images = append([]string{}, images...)
		}

		if err := repo.Create(ctx, l); err != nil {
			log.Fatalf("Failed to seed listing %s: %v", s.address, err)
		}
		ids = append(ids, l.ID)
	}

	log.Printf("Seeded %d listings", len(ids))
	return ids
}

func seedFavorites(ctx context.Context, repo repository.FavoriteRepository, user primitive.ObjectID, listingIDs []primitive.ObjectID) {
	for _, id := range listingIDs[:2] {
		if _, err := repo.Toggle(ctx, user, id); err != nil {
			log.Fatalf("Failed to seed favorite: %v", err)
		}
	}
	log.Println("Seeded favorites")
}

func f64(v float64) *float64 { return &v }

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
