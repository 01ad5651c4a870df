package middleware

import (
	"time"

	"ingredient-parser/internal/infrastructure/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics 記錄 HTTP 請求數與延遲，以路由樣板作為 path 標籤
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
