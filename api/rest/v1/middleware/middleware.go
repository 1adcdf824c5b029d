package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lambdadock/lambdadock/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request an identifier and logs its method and path
// under it. Handlers can read the id from the context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(RequestIDHeader, id)

		logger.WithComponent("http").WithFields(map[string]any{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		}).Debug("request")

		c.Next()
	}
}
