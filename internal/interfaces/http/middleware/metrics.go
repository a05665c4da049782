package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request count, latency and size.  The path label is the
// route template so that ids and names never explode label cardinality.
func Metrics(metrics *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		size := int64(c.Writer.Size())
		if size < 0 {
			size = 0
		}
		prometheus.RecordHTTPRequest(metrics, c.Request.Method, path, c.Writer.Status(), time.Since(start), size)
	}
}

//Personal.AI order the ending
