package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

const requestIDHeader = "X-Request-ID"

// WithRequestID tags every request with an identifier so webhook
// deliveries can be correlated across log lines.
func WithRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestID returns the identifier assigned by WithRequestID, or an
// empty string when the middleware did not run.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
