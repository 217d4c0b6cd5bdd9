package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	ServiceName    = "Dashboard API"
	ServiceVersion = "1.0.0"
)

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterHealth mounts GET /health on rg. The check pings the database with
// a short timeout and answers 500 when it is unreachable.
func RegisterHealth(rg gin.IRoutes, db Pinger) {
	rg.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		ts := time.Now().UTC().Format(time.RFC3339)
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":    "Error",
				"timestamp": ts,
				"database":  "Disconnected",
				"error":     err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": ts,
			"database":  "Connected",
			"service":   ServiceName,
			"version":   ServiceVersion,
		})
	})
}
