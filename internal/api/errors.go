package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing

	"auction_system/internal/domain"     // Sentinel errors
	"auction_system/internal/middleware" // Standard auth responses

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// statusFor maps a sentinel error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes {"error": ...} for err. Unexpected errors are logged and
// reported to the client as fallback.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	switch status {
	case http.StatusUnauthorized:
		middleware.AbortUnauthorized(c)
		return
	case http.StatusInternalServerError:
		logrus.WithFields(logrus.Fields{
			"path":  c.FullPath(), // Route
			"error": err.Error(),  // Cause
		}).Error(fallback)
		c.AbortWithStatusJSON(status, gin.H{"error": fallback})
		return
	}
	msg := fallback
	var derr *domain.Error
	if errors.As(err, &derr) {
		msg = derr.Msg
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// pathID parses a numeric path parameter, answering 400 when it is malformed.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
