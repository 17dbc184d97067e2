package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// defaultTimeout bounds database work when a handler is built without an explicit timeout.
const defaultTimeout = 15 * time.Second

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

func requestContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}
