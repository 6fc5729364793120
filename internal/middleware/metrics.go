package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docnyte/apisvc/internal/observability"
)

// unmatchedRoute is the label value used for requests that do not match any
// registered route, keeping metric cardinality bounded.
const unmatchedRoute = "unmatched"

// Metrics returns a middleware that records inbound request metrics.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		m.RecordRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
