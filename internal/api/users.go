package api

import (
	"net/http" // HTTP status codes

	"auction_system/internal/middleware" // Current user
	"auction_system/internal/service"    // User directory

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListUsersHandler returns every user
func ListUsersHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := users.ListAll(c.Request.Context())
		if err != nil {
			respondError(c, err, "Failed to fetch users")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// MeHandler returns the authenticated user
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, middleware.CurrentUser(c))
	}
}

// GetUserHandler returns a profile. Non-admins may only read their own and
// get 403 for any other username, existing or not.
func GetUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := middleware.CurrentUser(c)
		username := c.Param("username")
		if current.Username != username && !current.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not enough permissions to view this user"})
			return
		}
		user, err := users.GetByUsername(c.Request.Context(), username)
		if err != nil {
			respondError(c, err, "Failed to fetch user")
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
