package api

import (
	"context"  // Ping timeout
	"net/http" // HTTP status codes
	"time"     // Ping timeout

	"auction_system/internal/db" // Storage handle

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// HealthHandler reports whether the database answers.
func HealthHandler(store *db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logrus.WithError(err).Error("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
