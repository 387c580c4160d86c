//go:build api

package testserver

import (
	"context"
	"testing"

	"zeme/internal/database"
	"zeme/internal/models"
	"zeme/pkg/client"
	"zeme/test/fixtures"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPassword is used for every user registered through the helpers.
const DefaultPassword = "password123"

// Session is a registered user with an authenticated client.
type Session struct {
	User   models.User
	Token  string
	Client *client.Client
}

// ID returns the user's id as hex.
func (s *Session) ID() string {
	return s.User.ID.Hex()
}

// Register creates a user through the API and returns an authenticated session.
func (ts *TestServer) Register(t *testing.T, b *fixtures.UserBuilder) *Session {
	t.Helper()

	c := ts.Client("")
	resp, err := c.Register(context.Background(), b.CreateRequest(DefaultPassword))
	require.NoError(t, err, "register should succeed")
	require.NotEmpty(t, resp.Token)

	return &Session{User: resp.User, Token: resp.Token, Client: c}
}

// RegisterRenter registers a renter with default details.
func (ts *TestServer) RegisterRenter(t *testing.T) *Session {
	t.Helper()
	return ts.Register(t, fixtures.NewUser())
}

// RegisterAgent registers an agent with company details.
func (ts *TestServer) RegisterAgent(t *testing.T) *Session {
	t.Helper()
	return ts.Register(t, fixtures.NewUser().AsAgent())
}

// SeedUser directly inserts a user into the database (bypasses API).
func (ts *TestServer) SeedUser(t *testing.T, user *models.User) *models.User {
	t.Helper()

	err := ts.UserRepo.Create(context.Background(), user)
	require.NoError(t, err, "failed to seed user")

	return user
}

// SeedListing inserts a listing through the repository, which stamps timestamps.
func (ts *TestServer) SeedListing(t *testing.T, l *models.Listing) *models.Listing {
	t.Helper()

	err := ts.ListingRepo.Create(context.Background(), l)
	require.NoError(t, err, "failed to seed listing")

	return l
}

// SeedListingRaw inserts a listing directly into MongoDB, keeping its
// timestamps. Useful for ordering tests.
func (ts *TestServer) SeedListingRaw(t *testing.T, l *models.Listing) *models.Listing {
	t.Helper()

	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	_, err := ts.MongoDB.Database.Collection(database.ListingsCollection).InsertOne(context.Background(), l)
	require.NoError(t, err, "failed to seed listing directly")

	return l
}

// CreateListing creates a listing through the API as the session's user.
func (s *Session) CreateListing(t *testing.T, in models.ListingInput) *models.Listing {
	t.Helper()

	l, err := s.Client.CreateListing(context.Background(), in)
	require.NoError(t, err, "create listing should succeed")

	return l
}

// RequireAPIError asserts err is an API error with the given status and returns it.
func RequireAPIError(t *testing.T, err error, status int) *client.APIError {
	t.Helper()

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode, "unexpected status: %s", apiErr.Message)

	return apiErr
}

// ViolatedFields returns the fields reported in an API validation error.
func ViolatedFields(apiErr *client.APIError) []string {
	fields := make([]string, 0, len(apiErr.Violations))
	for _, v := range apiErr.Violations {
		fields = append(fields, v.Field)
	}
	return fields
}
