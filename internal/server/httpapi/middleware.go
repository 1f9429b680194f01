package httpapi

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// requestLogger logs one line per request and counts it.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		if s.metrics != nil {
			s.metrics.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		}
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		)
	}
}
