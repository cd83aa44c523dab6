package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"address-console/internal/shared/response"
)

// RequestObserver nhận kết quả từng HTTP request
type RequestObserver interface {
	ObserveRequest(method, path string, status int, elapsed time.Duration)
	IncAborted(path string)
}

// Metrics ghi request count/latency theo route template, abort đếm riêng
func Metrics(obs RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		obs.ObserveRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
		if c.GetString(response.ContextErrorCode) == response.CodeRequestAborted {
			obs.IncAborted(path)
		}
	}
}
