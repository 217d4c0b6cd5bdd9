package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sitedash/sitedash/pkg/logger"
)

// RequestLogger logs one line per request through the shared logger.
// 5xx responses log at error, 4xx at warn, everything else at debug so
// health probes stay quiet at the default level.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   status,
			"client":   c.ClientIP(),
			"duration": time.Since(start).String(),
		})
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Debug("request")
		}
	}
}

// NotFound answers unknown routes with a JSON body.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":     "Route not found",
		"message":   fmt.Sprintf("The route %s %s does not exist", c.Request.Method, c.Request.URL.Path),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Recovery turns panics into a logged 500 JSON response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		logger.Errorf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Something went wrong!",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"path":      c.Request.URL.Path,
			"method":    c.Request.Method,
		})
	})
}

// CORS sets permissive headers and answers preflight requests; the dashboard
// client is served from a different origin in development.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, X-Content-Source")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
