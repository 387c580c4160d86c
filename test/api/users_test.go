//go:build api

package api

import (
	"context"
	"net/http"
	"testing"

	"zeme/internal/cache"
	"zeme/internal/models"
	"zeme/test/api/testserver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

// TestGetUser tests the GET /api/v1/users/:id endpoint.
func TestGetUser(t *testing.T) {
	testServer.CleanupBetweenTests(t)
	ctx := context.Background()

	viewer := testServer.RegisterRenter(t)
	agent := testServer.RegisterAgent(t)

	t.Run("success - returns profile and caches it", func(t *testing.T) {
		u, err := viewer.Client.GetUser(ctx, agent.ID())

		require.NoError(t, err)
		assert.Equal(t, agent.User.Email, u.Email)
		assert.Equal(t, "Test Realty", u.CompanyName)

		rc := cache.NewRedis(testServer.Redis.URI)
		defer rc.Close()

		var cached models.User
		found, err := rc.Get(ctx, cache.UserCacheKey(agent.ID()), &cached)
		require.NoError(t, err)
		assert.True(t, found, "profile should be cached after the first read")
	})

	t.Run("error - unknown user", func(t *testing.T) {
		_, err := viewer.Client.GetUser(ctx, primitive.NewObjectID().Hex())

		testserver.RequireAPIError(t, err, http.StatusNotFound)
	})

	t.Run("error - malformed id", func(t *testing.T) {
		_, err := viewer.Client.GetUser(ctx, "not-an-id")

		testserver.RequireAPIError(t, err, http.StatusNotFound)
	})

	t.Run("error - unauthenticated", func(t *testing.T) {
		_, err := testServer.Client("").GetUser(ctx, agent.ID())

		testserver.RequireAPIError(t, err, http.StatusUnauthorized)
	})
}

// TestUpdateMe tests the PUT /api/v1/users/me endpoint.
func TestUpdateMe(t *testing.T) {
	testServer.CleanupBetweenTests(t)
	ctx := context.Background()

	t.Run("success - updates profile and invalidates cache", func(t *testing.T) {
		s := testServer.RegisterRenter(t)

		// Warm the cache.
		_, err := s.Client.GetUser(ctx, s.ID())
		require.NoError(t, err)

		updated, err := s.Client.UpdateMe(ctx, models.UpdateUserRequest{
			FirstName: strPtr("Renamed"),
			Bio:       strPtr("Looking for a one bedroom"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.FirstName)
		assert.Equal(t, "Looking for a one bedroom", updated.Bio)

		fresh, err := s.Client.GetUser(ctx, s.ID())
		require.NoError(t, err)
		assert.Equal(t, "Renamed", fresh.FirstName)
	})

	t.Run("success - renter may clear company fields", func(t *testing.T) {
		s := testServer.RegisterRenter(t)

		_, err := s.Client.UpdateMe(ctx, models.UpdateUserRequest{CompanyName: strPtr("")})

		require.NoError(t, err)
	})

	t.Run("error - agent cannot clear company name", func(t *testing.T) {
		s := testServer.RegisterAgent(t)

		_, err := s.Client.UpdateMe(ctx, models.UpdateUserRequest{CompanyName: strPtr("  ")})

		testserver.RequireAPIError(t, err, http.StatusBadRequest)

		me, err := s.Client.Me(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Test Realty", me.CompanyName)
	})

	t.Run("error - invalid profile image url", func(t *testing.T) {
		s := testServer.RegisterRenter(t)

		_, err := s.Client.UpdateMe(ctx, models.UpdateUserRequest{ProfileImage: strPtr("not a url")})

		testserver.RequireAPIError(t, err, http.StatusBadRequest)
	})
}
