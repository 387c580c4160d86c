package repository

import (
	"context"
	"testing"

	apperrors "zeme/internal/errors"
	"zeme/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestUser(email string) *models.User {
	return &models.User{
		FirstName: "Test",
		LastName:  "User",
		Phone:     "2125550100",
		Email:     email,
		Password:  "hashedpassword",
		Role:      models.RoleRenter,
	}
}

func TestUserRepository(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewUserRepository(tdb.Database)
	ctx := context.Background()

	t.Run("creates user with lowercased email", func(t *testing.T) {
		tdb.ClearCollection(t, "users")

		user := newTestUser("  Test@Example.com ")
		err := repo.Create(ctx, user)

		require.NoError(t, err)
		assert.False(t, user.ID.IsZero())
		assert.Equal(t, "test@example.com", user.Email)
		assert.NotZero(t, user.CreatedAt)
		assert.NotZero(t, user.UpdatedAt)
	})

	t.Run("returns error for duplicate email", func(t *testing.T) {
		tdb.ClearCollection(t, "users")

		require.NoError(t, repo.Create(ctx, newTestUser("duplicate@example.com")))
		err := repo.Create(ctx, newTestUser("DUPLICATE@example.com"))

		assert.Equal(t, apperrors.ErrUserAlreadyExists, err)
	})

	t.Run("finds user by id and email", func(t *testing.T) {
		tdb.ClearCollection(t, "users")

		user := newTestUser("find@example.com")
		require.NoError(t, repo.Create(ctx, user))

		byID, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, byID.Email)
		assert.Equal(t, "hashedpassword", byID.Password)

		byEmail, err := repo.FindByEmail(ctx, "FIND@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)
	})

	t.Run("returns not found for unknown user", func(t *testing.T) {
		tdb.ClearCollection(t, "users")

		found, err := repo.FindByID(ctx, primitive.NewObjectID())
		assert.Nil(t, found)
		assert.Equal(t, apperrors.ErrUserNotFound, err)

		found, err = repo.FindByEmail(ctx, "nobody@example.com")
		assert.Nil(t, found)
		assert.Equal(t, apperrors.ErrUserNotFound, err)

		found, err = repo.FindByGoogleID(ctx, "")
		assert.Nil(t, found)
		assert.Equal(t, apperrors.ErrUserNotFound, err)
	})

	t.Run("updates only supplied fields", func(t *testing.T) {
		tdb.ClearCollection(t, "users")

		user := newTestUser("update@example.com")
		require.NoError(t, repo.Create(ctx, user))

		bio := "  Manhattan rentals  "
		updated, err := repo.Update(ctx, user.ID, &models.UpdateUserRequest{Bio: &bio})

		require.NoError(t, err)
		assert.Equal(t, "Manhattan rentals", updated.Bio)
		assert.Equal(t, "Test", updated.FirstName)
		assert.True(t, updated.UpdatedAt.After(user.UpdatedAt) || updated.UpdatedAt.Equal(user.UpdatedAt))
	})

	t.Run("update of missing user returns not found", func(t *testing.T) {
		name := "Ghost"
		updated, err := repo.Update(ctx, primitive.NewObjectID(), &models.UpdateUserRequest{FirstName: &name})

		assert.Nil(t, updated)
		assert.Equal(t, apperrors.ErrUserNotFound, err)
	})

	t.Run("links google account", func(t *testing.T) {
		tdb.ClearCollection(t, "users")

		user := newTestUser("google@example.com")
		require.NoError(t, repo.Create(ctx, user))

		linked, err := repo.LinkGoogle(ctx, user.ID, "google-123", "https://lh3.example.com/photo.jpg")
		require.NoError(t, err)
		assert.Equal(t, "https://lh3.example.com/photo.jpg", linked.ProfileImage)

		found, err := repo.FindByGoogleID(ctx, "google-123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("exists", func(t *testing.T) {
		tdb.ClearCollection(t, "users")

		user := newTestUser("exists@example.com")
		require.NoError(t, repo.Create(ctx, user))

		ok, err := repo.Exists(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Exists(ctx, primitive.NewObjectID())
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
