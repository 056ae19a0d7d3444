package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is the gin context key holding the per-request id.
const RequestIDKey = "request_id"

// RequestID tags every request with a uuid, echoes it in X-Request-ID, and
// logs the request outcome.
type RequestID struct {
	logger *logrus.Logger
}

// NewRequestID creates the request-id middleware.
func NewRequestID(logger *logrus.Logger) *RequestID {
	return &RequestID{logger: logger}
}

// Handler returns the gin middleware.
func (m *RequestID) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)

		c.Next()

		m.logger.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"client_ip":  c.ClientIP(),
		}).Info("request completed")
	}
}
