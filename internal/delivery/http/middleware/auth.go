package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthRequired trusts identity headers set by the upstream auth
// gateway. Authentication itself is not this service's concern; it
// only needs a caller id and role.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.GetHeader("X-User-ID"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid user identity"})
			return
		}

		role := c.GetHeader("X-User-Role")
		if role == "" {
			role = "buyer"
		}

		c.Set("user_id", userID)
		c.Set("role_name", role)
		c.Next()
	}
}

func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.MustGet("role_name").(string) != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
