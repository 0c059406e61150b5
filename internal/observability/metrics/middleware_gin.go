package metrics

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// GinMiddleware counts requests by route template and status code.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if m == nil {
			return
		}
		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.RecordHTTPRequest(c.Request.Context(), route, c.Writer.Status())
	}
}
