// Package oauth exchanges third-party authorization codes for user profiles.
package oauth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "zeme/internal/errors"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultUserInfoURL is Google's OpenID Connect userinfo endpoint.
const DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

//go:generate mockgen -destination=mocks/mock_provider.go -package=mocks zeme/internal/oauth Provider

// Provider exchanges an authorization code for the signed-in user's profile.
type Provider interface {
	Exchange(ctx context.Context, code, redirectURI string) (*Profile, error)
}

// Profile is the subset of the userinfo response the application uses.
type Profile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// GoogleConfig holds the client credentials and endpoints.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	// RedirectURL is used when the client does not send one.
	RedirectURL string
	// Endpoint and UserInfoURL default to Google's; tests point them elsewhere.
	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

// Google implements Provider against Google's OAuth 2.0 endpoints.
type Google struct {
	config      oauth2.Config
	userInfoURL string
	client      *resty.Client
}

// NewGoogle creates a Google provider.
func NewGoogle(cfg GoogleConfig) *Google {
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = DefaultUserInfoURL
	}

	return &Google{
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: userInfoURL,
		client:      resty.New().SetTimeout(10 * time.Second),
	}
}

// Exchange trades the code for an access token and fetches the profile.
func (g *Google) Exchange(ctx context.Context, code, redirectURI string) (*Profile, error) {
	var opts []oauth2.AuthCodeOption
	if redirectURI != "" {
		opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	}

	token, err := g.config.Exchange(ctx, code, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrOAuthExchange, err)
	}

	var profile Profile
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		SetResult(&profile).
		Get(g.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrOAuthExchange, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo status %d", apperrors.ErrOAuthExchange, resp.StatusCode())
	}

	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	if profile.Email == "" || !profile.EmailVerified {
		return nil, apperrors.ErrOAuthEmailMissing
	}
	return &profile, nil
}

// Ensure Google implements Provider interface
var _ Provider = (*Google)(nil)
