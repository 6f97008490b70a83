package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"city-registry/internal/core/auth"
	resp "city-registry/internal/transport/http/response"
)

// AuthJWT guards a group: it verifies the bearer token and stashes the claims
// plus userId/username for handlers downstream.
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		c.Set("claims", claims)
		c.Set("userId", claims.Subject)
		c.Set("username", claims.Username)
		c.Next()
	}
}
