package middleware

import (
	"mediagate/pkg/utils"

	"github.com/gin-gonic/gin"
)

const requestIDKey = "request_id"

// RequestIDMiddleware tags every request with an ID, honoring one set
// by an upstream proxy.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = utils.GenerateRequestID()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// RequestIDFromContext returns the request's ID, empty if untagged.
func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
