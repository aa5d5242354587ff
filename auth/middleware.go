package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"herelaw-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	claimsKey    = "auth.claims"
	bearerPrefix = "Bearer "
)

// JWTRequired rejects requests without a valid bearer token and stores
// the claims on the gin context.
func JWTRequired(m *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token")
			return
		}

		claims, err := m.ValidateToken(strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
		if err != nil {
			slog.WarnContext(c.Request.Context(), "rejected token", "path", c.Request.URL.Path, "error", err)
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// AdminRequired must run after JWTRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok || claims.Role != models.RoleAdmin {
			abort(c, http.StatusForbidden, "FORBIDDEN", "Administrator role required")
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by JWTRequired.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// CurrentUserID returns the authenticated user's ID.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return uuid.Nil, false
	}
	id, err := claims.UserID()
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
