// File: /middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextUserID is the gin context key under which the resolved caller id is
// stored by the auth middleware.
const ContextUserID = "user_id"

// AuthMiddleware resolves the caller from a Bearer token and rejects the
// request when the token is missing or invalid. Protected write endpoints
// depend on the resolved identity.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolveUserID(c, jwtSecret)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the caller when a valid token is present
// and passes through as unauthenticated otherwise. Read-mostly endpoints use
// this so an absent or expired token degrades the response instead of
// failing it.
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := resolveUserID(c, jwtSecret); ok {
			c.Set(ContextUserID, userID)
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated caller's id, if any.
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint)
	return userID, ok
}

func resolveUserID(c *gin.Context, jwtSecret string) (uint, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return 0, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	// Numbers decoded from JSON claims arrive as float64
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, false
	}

	return uint(id), true
}
