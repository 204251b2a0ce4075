package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sherdwhite/book-trader/utils"
)

// RequestLoggerMiddleware tags each request with an id and logs it with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()
	requestID := utils.NewRequestID()
	c.Writer.Header().Set("X-Request-ID", requestID)

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"request_id": requestID,
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     c.Writer.Status(),
		"latency":    time.Since(start).String(),
	})
}
