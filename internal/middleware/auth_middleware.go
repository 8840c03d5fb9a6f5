package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skyvoyage/flight-booking-backend/pkg/jwt"
)

// Context keys for the authenticated user.
const (
	ContextUserID = "user_id"
	ContextRoles  = "roles"
)

// AuthMiddleware creates a middleware that validates JWT tokens. The
// engine does not issue tokens; it only checks ones presented by the
// external auth flow.
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, jwtService)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "A valid access token is required",
			})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRoles, claims.Roles)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches user context when a valid token is
// presented but lets anonymous requests through. The browse steps of the
// wizard do not require a login.
func OptionalAuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseBearer(c, jwtService); ok {
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextRoles, claims.Roles)
		}
		c.Next()
	}
}

// AuthenticatedUserID returns the user id attached by the middleware, or
// nil for anonymous requests.
func AuthenticatedUserID(c *gin.Context) *uuid.UUID {
	if v, exists := c.Get(ContextUserID); exists {
		if id, ok := v.(uuid.UUID); ok {
			return &id
		}
	}
	return nil
}

func parseBearer(c *gin.Context, jwtService *jwt.Service) (*jwt.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return nil, false
	}

	claims, err := jwtService.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, false
	}
	return claims, true
}
