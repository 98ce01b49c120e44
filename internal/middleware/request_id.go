package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stocktrack/api/internal/log"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags each request with an id, echoing a client-supplied one when
// present. The id travels in the request context so that services can stamp
// it onto their own log events, not just the access log.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Writer.Header().Set(requestIDHeader, id)
		c.Request = c.Request.WithContext(log.WithRequestID(c.Request.Context(), id))

		c.Next()
	}
}
