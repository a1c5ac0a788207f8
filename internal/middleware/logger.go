package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"veridoc/internal/config"
)

// RequestID injects an X-Request-ID header into the request and response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Health probe paths are excluded from request logging; they fire every few
// seconds and drown everything else.
var unloggedPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
}

// Logger logs each HTTP request with method, path, status, and latency.
// At debug level the query string and client IP are included.
func Logger(cfg config.LogConfig) gin.HandlerFunc {
	debug := cfg.Level == "debug"
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if unloggedPaths[c.Request.URL.Path] {
			return
		}
		latency := time.Since(start)

		requestID, _ := c.Get("request_id")
		if debug && c.Request.URL.RawQuery != "" {
			log.Printf("[%s] %s %s?%s %d %s %s",
				requestID,
				c.Request.Method,
				c.Request.URL.Path,
				c.Request.URL.RawQuery,
				c.Writer.Status(),
				latency,
				c.ClientIP(),
			)
			return
		}
		log.Printf("[%s] %s %s %d %s",
			requestID,
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			latency,
		)
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
