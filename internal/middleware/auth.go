// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"strings"

	"workspace-access/pkg/auth"
	"workspace-access/pkg/response"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys for storing user data
const (
	UserIDKey = "userID"
)

// accessTokenQuery carries the token on WebSocket upgrades, where browsers cannot set headers.
const accessTokenQuery = "access_token"

// Auth returns a middleware that validates JWT tokens.
func Auth(tokens auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, msg := bearerToken(c)
		if token == "" {
			response.Unauthorized(c, msg)
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		// Store user ID in context for handlers to use
		c.Set(UserIDKey, claims.UserID)

		c.Next()
	}
}

// bearerToken extracts the token, or returns "" and the reason it is missing.
func bearerToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if isWebSocketUpgrade(c) {
			if token := c.Query(accessTokenQuery); token != "" {
				return token, ""
			}
		}
		return "", "missing authorization header"
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", "invalid authorization header format"
	}
	return parts[1], ""
}

func isWebSocketUpgrade(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}

// GetUserID retrieves the user ID from the context.
// Returns empty string if not found.
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// GetUserObjectID returns the authenticated user's ID as an ObjectID.
func GetUserObjectID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(GetUserID(c))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
