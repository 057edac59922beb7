package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// RequestID propagates the caller's X-Request-ID, minting one when absent,
// so an extraction can be traced from upload through the document-AI call
// to the persisted record.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Logger writes one access-log line per request. Liveness and readiness
// probes are polled constantly and would drown out real traffic, so they
// are not logged.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if path == "/healthz" || path == "/readyz" {
			return
		}

		id, _ := c.Get(requestIDKey)
		log.Printf("[%s] %s %s -> %d (%s, %s)",
			id,
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
		)
	}
}

// Recovery turns a handler panic into a 500 instead of dropping the
// connection mid-extraction.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
