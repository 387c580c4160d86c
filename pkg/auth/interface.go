package auth

import "time"

//go:generate mockgen -destination=mocks/mock_jwt.go -package=mocks zeme/pkg/auth TokenManager

// TokenManager defines the interface for JWT token operations.
type TokenManager interface {
	// GenerateToken creates a signed access token for a user.
	GenerateToken(userID, role string) (string, error)
	// ValidateToken parses and validates a JWT token, returning the claims if valid.
	ValidateToken(tokenString string) (*Claims, error)
	// Expiry is the lifetime of issued tokens.
	Expiry() time.Duration
}

// Ensure JWTManager implements TokenManager interface
var _ TokenManager = (*JWTManager)(nil)
