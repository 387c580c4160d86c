// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"strings"

	"zeme/pkg/auth"
	"zeme/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the context key for the authenticated user id.
const UserIDKey = "userID"

// LegacyTokenHeader carries a bare token for older clients.
const LegacyTokenHeader = "auth-token"

// Auth returns a middleware that validates JWT tokens. The token is read from
// "Authorization: Bearer <token>" or, if that header is absent, from auth-token.
func Auth(tokens auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)

		c.Next()
	}
}

func extractToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if legacy := strings.TrimSpace(c.GetHeader(LegacyTokenHeader)); legacy != "" {
			return legacy, true
		}
		response.Unauthorized(c, "missing authorization header")
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		response.Unauthorized(c, "invalid authorization header format")
		return "", false
	}
	return parts[1], true
}

// GetUserID retrieves the user ID from the context.
// Returns empty string if not found.
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return ""
	}
	return userID.(string)
}
