// Package client is a typed HTTP client for the Zeme API.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"zeme/internal/listing"
	"zeme/internal/models"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout applies to every request unless overridden.
const DefaultTimeout = 20 * time.Second

// Violation is a field level validation failure reported by the API.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Violations []Violation
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// envelope mirrors the server's response format.
type envelope[T any] struct {
	Success bool        `json:"success"`
	Data    T           `json:"data"`
	Error   string      `json:"error"`
	Errors  []Violation `json:"errors"`
}

// Client talks to a Zeme server. It is safe for concurrent use once the token is set.
type Client struct {
	http *resty.Client
}

// Option configures a Client.
type Option func(*resty.Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// WithToken authenticates every request with a bearer token.
func WithToken(token string) Option {
	return func(c *resty.Client) { c.SetAuthToken(token) }
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:8080/api/v1.
func New(baseURL string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(DefaultTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "zemectl/1.0")
	for _, opt := range opts {
		opt(rc)
	}
	return &Client{http: rc}
}

// SetToken sets the bearer token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

func do[T any](ctx context.Context, c *Client, method, path string, body interface{}) (T, error) {
	var env envelope[T]
	req := c.http.R().SetContext(ctx).SetResult(&env).SetError(&env)
	if body != nil {
		req.SetBody(body)
	}
	return finish(req, &env, method, path)
}

func finish[T any](req *resty.Request, env *envelope[T], method, path string) (T, error) {
	var zero T
	resp, err := req.Execute(method, path)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return zero, &APIError{
			StatusCode: resp.StatusCode(),
			Message:    env.Error,
			Violations: env.Errors,
		}
	}
	return env.Data, nil
}

// Register creates an account and stores the returned token.
func (c *Client) Register(ctx context.Context, req models.CreateUserRequest) (*models.AuthResponse, error) {
	resp, err := do[models.AuthResponse](ctx, c, http.MethodPost, "/auth/register", req)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// Login authenticates and stores the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	resp, err := do[models.AuthResponse](ctx, c, http.MethodPost, "/auth/login", models.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	u, err := do[models.User](ctx, c, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUser returns a user's public profile.
func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := do[models.User](ctx, c, http.MethodGet, "/users/"+id, nil)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateMe updates the authenticated user's profile.
func (c *Client) UpdateMe(ctx context.Context, req models.UpdateUserRequest) (*models.User, error) {
	u, err := do[models.User](ctx, c, http.MethodPut, "/users/me", req)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Search returns published listings matching f.
func (c *Client) Search(ctx context.Context, f listing.Filter) ([]models.Listing, error) {
	return do[[]models.Listing](ctx, c, http.MethodPost, "/properties/search", listing.SearchRequest{Filters: f})
}

// CreateListing stores a new listing.
func (c *Client) CreateListing(ctx context.Context, in models.ListingInput) (*models.Listing, error) {
	l, err := do[models.Listing](ctx, c, http.MethodPost, "/properties", in)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateListing replaces the listing with the given id.
func (c *Client) UpdateListing(ctx context.Context, id string, in models.ListingInput) (*models.Listing, error) {
	l, err := do[models.Listing](ctx, c, http.MethodPut, "/properties/"+id, in)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateStatus changes only the status of a listing.
func (c *Client) UpdateStatus(ctx context.Context, id string, status models.ListingStatus) (*models.Listing, error) {
	l, err := do[models.Listing](ctx, c, http.MethodPatch, "/properties/"+id+"/status", models.UpdateStatusRequest{
		Status: string(status),
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetListing fetches one listing.
func (c *Client) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	l, err := do[models.Listing](ctx, c, http.MethodGet, "/properties/"+id, nil)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListMine returns the caller's listings, optionally restricted to one status.
func (c *Client) ListMine(ctx context.Context, status string) ([]models.Listing, error) {
	path := "/properties/mine"
	if status != "" {
		path += "?status=" + status
	}
	return do[[]models.Listing](ctx, c, http.MethodGet, path, nil)
}

// DeleteListing removes a listing.
func (c *Client) DeleteListing(ctx context.Context, id string) error {
	_, err := do[struct{}](ctx, c, http.MethodDelete, "/properties/"+id, nil)
	return err
}

// ToggleFavorite adds or removes a listing from the caller's favorites.
func (c *Client) ToggleFavorite(ctx context.Context, listingID string) (*models.ToggleFavoriteResponse, error) {
	resp, err := do[models.ToggleFavoriteResponse](ctx, c, http.MethodPost, "/favorites/toggle", models.ToggleFavoriteRequest{
		PropertyID: listingID,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Favorites returns the caller's favorite record.
func (c *Client) Favorites(ctx context.Context) (*models.Favorite, error) {
	f, err := do[models.Favorite](ctx, c, http.MethodGet, "/favorites", nil)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// FavoriteListings returns the published listings the caller saved.
func (c *Client) FavoriteListings(ctx context.Context) ([]models.Listing, error) {
	return do[[]models.Listing](ctx, c, http.MethodGet, "/favorites/properties", nil)
}

// Upload stores a file and returns its public path.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (*models.UploadResponse, error) {
	var env envelope[models.UploadResponse]
	req := c.http.R().
		SetContext(ctx).
		SetFileReader("file", name, r).
		SetResult(&env).
		SetError(&env)
	resp, err := finish(req, &env, http.MethodPost, "/uploads")
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchLocations geocodes a free text query within New York City.
func (c *Client) SearchLocations(ctx context.Context, query string) ([]models.Candidate, error) {
	var env envelope[[]models.Candidate]
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		SetResult(&env).
		SetError(&env)
	return finish(req, &env, http.MethodGet, "/locations/search")
}
