package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "city-registry/internal/transport/http/response"
	"city-registry/pkg/utils"
)

// UUIDParam rejects requests whose path parameter is present but not a valid
// UUID, before any handler or service runs. Routes without the parameter pass
// through untouched.
func UUIDParam(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v := c.Param(name); v != "" && !utils.IsUUID(v) {
			c.AbortWithStatusJSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, "invalid uuid in path"))
			return
		}
		c.Next()
	}
}
