package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"zeme/internal/authz"
	"zeme/internal/authz/mocks"
	apperrors "zeme/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

func newListingContext(w *httptest.ResponseRecorder, userID, listingID string) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/properties/"+listingID, nil)
	c.Params = gin.Params{{Key: "id", Value: listingID}}
	if userID != "" {
		c.Set(UserIDKey, userID)
	}
	return c
}

func TestListingAuthz(t *testing.T) {
	validUserID := primitive.NewObjectID()
	validListingID := primitive.NewObjectID()

	t.Run("allows owner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockAuthz := mocks.NewMockAuthorizer(ctrl)
		mockAuthz.EXPECT().
			CanPerform(gomock.Any(), validUserID, validListingID, authz.ActionListingUpdate).
			Return(true, nil)

		w := httptest.NewRecorder()
		c := newListingContext(w, validUserID.Hex(), validListingID.Hex())

		var handlerCalled bool
		ListingAuthz(mockAuthz, authz.ActionListingUpdate)(c)
		if !c.IsAborted() {
			handlerCalled = true
			c.Status(http.StatusOK)
		}

		assert.True(t, handlerCalled)
		assert.Equal(t, http.StatusOK, w.Code)

		listingID, exists := GetListingID(c)
		assert.True(t, exists)
		assert.Equal(t, validListingID, listingID)
	})

	t.Run("rejects non-owner with 403", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockAuthz := mocks.NewMockAuthorizer(ctrl)
		mockAuthz.EXPECT().
			CanPerform(gomock.Any(), validUserID, validListingID, authz.ActionListingDelete).
			Return(false, nil)

		w := httptest.NewRecorder()
		c := newListingContext(w, validUserID.Hex(), validListingID.Hex())

		ListingAuthz(mockAuthz, authz.ActionListingDelete)(c)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), apperrors.ErrListingForbidden.Error())
	})

	t.Run("hidden listing view is 404", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockAuthz := mocks.NewMockAuthorizer(ctrl)
		mockAuthz.EXPECT().
			CanPerform(gomock.Any(), validUserID, validListingID, authz.ActionListingView).
			Return(false, nil)

		w := httptest.NewRecorder()
		c := newListingContext(w, validUserID.Hex(), validListingID.Hex())

		ListingAuthz(mockAuthz, authz.ActionListingView)(c)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), apperrors.ErrListingNotFound.Error())
	})

	t.Run("visible listing view passes through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockAuthz := mocks.NewMockAuthorizer(ctrl)
		mockAuthz.EXPECT().
			CanPerform(gomock.Any(), validUserID, validListingID, authz.ActionListingView).
			Return(true, nil)

		w := httptest.NewRecorder()
		c := newListingContext(w, validUserID.Hex(), validListingID.Hex())

		ListingAuthz(mockAuthz, authz.ActionListingView)(c)

		assert.False(t, c.IsAborted())
		listingID, exists := GetListingID(c)
		assert.True(t, exists)
		assert.Equal(t, validListingID, listingID)
	})

	t.Run("missing listing is 404", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockAuthz := mocks.NewMockAuthorizer(ctrl)
		mockAuthz.EXPECT().
			CanPerform(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, apperrors.ErrListingNotFound)

		w := httptest.NewRecorder()
		c := newListingContext(w, validUserID.Hex(), validListingID.Hex())

		ListingAuthz(mockAuthz, authz.ActionListingUpdate)(c)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("authorizer failure is 500", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockAuthz := mocks.NewMockAuthorizer(ctrl)
		mockAuthz.EXPECT().
			CanPerform(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, assert.AnError)

		w := httptest.NewRecorder()
		c := newListingContext(w, validUserID.Hex(), validListingID.Hex())

		ListingAuthz(mockAuthz, authz.ActionListingUpdate)(c)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("invalid listing id is 400", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		w := httptest.NewRecorder()
		c := newListingContext(w, validUserID.Hex(), "not-an-id")

		ListingAuthz(mocks.NewMockAuthorizer(ctrl), authz.ActionListingUpdate)(c)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unauthenticated is 401", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		w := httptest.NewRecorder()
		c := newListingContext(w, "", validListingID.Hex())

		ListingAuthz(mocks.NewMockAuthorizer(ctrl), authz.ActionListingUpdate)(c)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed user id is 401", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		w := httptest.NewRecorder()
		c := newListingContext(w, "bogus", validListingID.Hex())

		ListingAuthz(mocks.NewMockAuthorizer(ctrl), authz.ActionListingUpdate)(c)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetListingID_NotSet(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	id, ok := GetListingID(c)

	assert.False(t, ok)
	assert.Equal(t, primitive.NilObjectID, id)
}
