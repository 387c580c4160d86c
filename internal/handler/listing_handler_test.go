package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "zeme/internal/errors"
	"zeme/internal/listing"
	"zeme/internal/models"
	"zeme/internal/service/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newListingRouter(svc *mocks.MockListingService, userID string) *gin.Engine {
	h := NewListingHandler(svc)
	r := gin.New()
	r.POST("/properties/search", h.Search)

	authed := r.Group("", asUser(userID))
	authed.POST("/properties", h.Create)
	authed.GET("/properties/mine", h.ListMine)
	authed.GET("/properties/:id", h.Get)
	authed.PUT("/properties/:id", h.Update)
	authed.PATCH("/properties/:id/status", h.UpdateStatus)
	authed.DELETE("/properties/:id", h.Delete)
	return r
}

func serve(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBuffer(encodeBody(body)))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListingHandler_Search(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		searchErr      error
		expectedStatus int
		checkFilter    func(*testing.T, listing.Filter)
	}{
		{
			name: "passes filters through",
			body: map[string]interface{}{
				"filters": map[string]interface{}{
					"bedrooms": []string{"Studio", "2+"},
					"minRent":  1500,
					"sort":     "Price Low to High",
				},
			},
			expectedStatus: http.StatusOK,
			checkFilter: func(t *testing.T, f listing.Filter) {
				assert.Equal(t, []string{"Studio", "2+"}, f.Bedrooms)
				assert.Equal(t, 1500.0, f.MinRent)
				assert.Equal(t, "Price Low to High", f.Sort)
			},
		},
		{
			name:           "empty body means no filters",
			body:           nil,
			expectedStatus: http.StatusOK,
			checkFilter: func(t *testing.T, f listing.Filter) {
				assert.Equal(t, listing.Filter{}, f)
			},
		},
		{
			name:           "malformed body",
			body:           "{",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad room label",
			body:           map[string]interface{}{"filters": map[string]interface{}{"bedrooms": []string{"many"}}},
			searchErr:      apperrors.ErrInvalidFilter,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "query failure",
			body:           map[string]interface{}{"filters": map[string]interface{}{}},
			searchErr:      apperrors.ErrQueryFailed,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockListingService{
				SearchFunc: func(ctx context.Context, f listing.Filter) ([]models.Listing, error) {
					if tt.checkFilter != nil {
						tt.checkFilter(t, f)
					}
					if tt.searchErr != nil {
						return nil, tt.searchErr
					}
					return []models.Listing{}, nil
				},
			}

			w := serve(newListingRouter(svc, primitive.NewObjectID().Hex()), http.MethodPost, "/properties/search", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestListingHandler_Search_UnsizedBody(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expected       listing.Filter
	}{
		{"empty chunked body", "", http.StatusOK, listing.Filter{}},
		{"chunked filters", `{"filters":{"bathrooms":["1+"]}}`, http.StatusOK, listing.Filter{Bathrooms: []string{"1+"}}},
		{"chunked garbage", "{", http.StatusBadRequest, listing.Filter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got listing.Filter
			svc := &mocks.MockListingService{
				SearchFunc: func(ctx context.Context, f listing.Filter) ([]models.Listing, error) {
					got = f
					return []models.Listing{}, nil
				},
			}

			// A bare reader leaves ContentLength at -1, as with chunked encoding.
			req := httptest.NewRequest(http.MethodPost, "/properties/search", io.MultiReader(strings.NewReader(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			require.Equal(t, int64(-1), req.ContentLength)

			w := httptest.NewRecorder()
			newListingRouter(svc, primitive.NewObjectID().Hex()).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestListingHandler_Create(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("created with owner from token", func(t *testing.T) {
		svc := &mocks.MockListingService{
			CreateFunc: func(ctx context.Context, owner primitive.ObjectID, in *models.ListingInput) (*models.Listing, error) {
				assert.Equal(t, userID, owner)
				l := &models.Listing{ID: primitive.NewObjectID(), Owner: owner, Status: models.StatusDraft}
				in.ApplyTo(l)
				return l, nil
			},
		}

		w := serve(newListingRouter(svc, userID.Hex()), http.MethodPost, "/properties", map[string]interface{}{
			"basicInformation": map[string]interface{}{"address": "1 Main St"},
		})

		require.Equal(t, http.StatusCreated, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "draft", data["status"])
		assert.Equal(t, userID.Hex(), data["owner"])
	})

	t.Run("validation errors list each field", func(t *testing.T) {
		svc := &mocks.MockListingService{
			CreateFunc: func(ctx context.Context, owner primitive.ObjectID, in *models.ListingInput) (*models.Listing, error) {
				ve := &apperrors.ValidationError{}
				ve.Add("basicInformation.bedrooms", "bedrooms is required to publish")
				ve.Add("images", "published properties must have between 5 and 25 images")
				return nil, ve
			},
		}

		w := serve(newListingRouter(svc, userID.Hex()), http.MethodPost, "/properties", map[string]interface{}{"status": "published"})

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, false, resp["success"])
		errs := resp["errors"].([]interface{})
		require.Len(t, errs, 2)
		assert.Equal(t, "basicInformation.bedrooms", errs[0].(map[string]interface{})["field"])
	})

	t.Run("unknown status is rejected by binding", func(t *testing.T) {
		w := serve(newListingRouter(&mocks.MockListingService{}, userID.Hex()), http.MethodPost, "/properties", map[string]interface{}{"status": "sold"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing identity", func(t *testing.T) {
		w := serve(newListingRouter(&mocks.MockListingService{}, ""), http.MethodPost, "/properties", map[string]interface{}{})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestListingHandler_Get(t *testing.T) {
	userID := primitive.NewObjectID()
	id := primitive.NewObjectID()

	tests := []struct {
		name           string
		path           string
		err            error
		expectedStatus int
	}{
		{"found", "/properties/" + id.Hex(), nil, http.StatusOK},
		{"hidden draft", "/properties/" + id.Hex(), apperrors.ErrListingNotFound, http.StatusNotFound},
		{"malformed id", "/properties/not-an-id", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockListingService{
				GetFunc: func(ctx context.Context, got, caller primitive.ObjectID) (*models.Listing, error) {
					assert.Equal(t, id, got)
					assert.Equal(t, userID, caller)
					if tt.err != nil {
						return nil, tt.err
					}
					return &models.Listing{ID: id, Status: models.StatusPublished}, nil
				},
			}

			w := serve(newListingRouter(svc, userID.Hex()), http.MethodGet, tt.path, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestListingHandler_ListMine(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("status filter", func(t *testing.T) {
		svc := &mocks.MockListingService{
			ListMineFunc: func(ctx context.Context, owner primitive.ObjectID, status string) ([]models.Listing, error) {
				assert.Equal(t, userID, owner)
				assert.Equal(t, "draft", status)
				return []models.Listing{{Owner: owner, Status: models.StatusDraft}}, nil
			},
		}

		w := serve(newListingRouter(svc, userID.Hex()), http.MethodGet, "/properties/mine?status=draft", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeResponse(t, w)["data"], 1)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc := &mocks.MockListingService{
			ListMineFunc: func(ctx context.Context, owner primitive.ObjectID, status string) ([]models.Listing, error) {
				return nil, apperrors.ErrInvalidStatus
			},
		}

		w := serve(newListingRouter(svc, userID.Hex()), http.MethodGet, "/properties/mine?status=sold", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListingHandler_Update(t *testing.T) {
	userID := primitive.NewObjectID()
	id := primitive.NewObjectID()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"updated", nil, http.StatusOK},
		{"not owner", apperrors.ErrListingForbidden, http.StatusForbidden},
		{"missing", apperrors.ErrListingNotFound, http.StatusNotFound},
		{"storage failure", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockListingService{
				UpdateFunc: func(ctx context.Context, got, owner primitive.ObjectID, in *models.ListingInput) (*models.Listing, error) {
					assert.Equal(t, id, got)
					assert.Equal(t, "2 Main St", in.BasicInformation.Address)
					if tt.err != nil {
						return nil, tt.err
					}
					return &models.Listing{ID: id, Owner: owner}, nil
				},
			}

			w := serve(newListingRouter(svc, userID.Hex()), http.MethodPut, "/properties/"+id.Hex(), map[string]interface{}{
				"basicInformation": map[string]interface{}{"address": "2 Main St"},
			})

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestListingHandler_UpdateStatus(t *testing.T) {
	userID := primitive.NewObjectID()
	id := primitive.NewObjectID()

	t.Run("publishes", func(t *testing.T) {
		svc := &mocks.MockListingService{
			UpdateStatusFunc: func(ctx context.Context, got, owner primitive.ObjectID, status string) (*models.Listing, error) {
				assert.Equal(t, "published", status)
				return &models.Listing{ID: got, Owner: owner, Status: models.StatusPublished}, nil
			},
		}

		w := serve(newListingRouter(svc, userID.Hex()), http.MethodPatch, "/properties/"+id.Hex()+"/status", map[string]string{"status": "published"})

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "published", data["status"])
	})

	t.Run("missing status", func(t *testing.T) {
		w := serve(newListingRouter(&mocks.MockListingService{}, userID.Hex()), http.MethodPatch, "/properties/"+id.Hex()+"/status", map[string]string{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("incomplete listing", func(t *testing.T) {
		svc := &mocks.MockListingService{
			UpdateStatusFunc: func(ctx context.Context, got, owner primitive.ObjectID, status string) (*models.Listing, error) {
				ve := &apperrors.ValidationError{}
				ve.Add("economicInformation.grossRent", "gross rent is required to publish")
				return nil, ve
			},
		}

		w := serve(newListingRouter(svc, userID.Hex()), http.MethodPatch, "/properties/"+id.Hex()+"/status", map[string]string{"status": "published"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "economicInformation.grossRent")
	})
}

func TestListingHandler_Delete(t *testing.T) {
	userID := primitive.NewObjectID()
	id := primitive.NewObjectID()

	t.Run("deleted", func(t *testing.T) {
		svc := &mocks.MockListingService{
			DeleteFunc: func(ctx context.Context, got, owner primitive.ObjectID) error {
				assert.Equal(t, id, got)
				assert.Equal(t, userID, owner)
				return nil
			},
		}

		w := serve(newListingRouter(svc, userID.Hex()), http.MethodDelete, "/properties/"+id.Hex(), nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("not owner", func(t *testing.T) {
		svc := &mocks.MockListingService{
			DeleteFunc: func(ctx context.Context, got, owner primitive.ObjectID) error {
				return apperrors.ErrListingForbidden
			},
		}

		w := serve(newListingRouter(svc, userID.Hex()), http.MethodDelete, "/properties/"+id.Hex(), nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
