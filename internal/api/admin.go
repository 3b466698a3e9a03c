package api

import (
	"errors"   // Empty body detection
	"fmt"      // Response messages
	"io"       // io.EOF on an empty body
	"net/http" // HTTP status codes

	"auction_system/internal/domain"     // Importing domain models
	"auction_system/internal/middleware" // Current user
	"auction_system/internal/service"    // Services

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// CreateUserRequest is the admin variant of registration; it may set the role.
type CreateUserRequest struct {
	service.UserInput
	Role domain.Role `json:"role"` // Defaults to user
}

// CreateUserHandler lets an admin create a user with any role
func CreateUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := users.Create(c.Request.Context(), req.UserInput, req.Role)
		if err != nil {
			respondError(c, err, "Failed to create user")
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

// DeleteUserHandler removes a user by username
func DeleteUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username")
		deleted, err := users.Delete(c.Request.Context(), username)
		if err != nil {
			respondError(c, err, "Failed to delete user")
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"username": username,                           // Deleted user
			"by":       middleware.CurrentUser(c).Username, // Acting admin
		}).Info("Admin deleted user")
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("User %s deleted successfully", username)})
	}
}

// UpdateRoleRequest is the JSON alternative to the new_role query parameter.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRoleHandler changes a user's role
func UpdateRoleHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("new_role")
		if raw == "" {
			var req UpdateRoleRequest
			if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			raw = req.Role
		}
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "new_role is required"})
			return
		}
		username := c.Param("username")
		user, err := users.UpdateRole(c.Request.Context(), username, domain.Role(raw))
		if err != nil {
			respondError(c, err, "Failed to update role")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("User %s role updated to %s", username, user.Role)})
	}
}

// CreateAuctionHandler opens a new auction
func CreateAuctionHandler(auctions *service.AuctionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.AuctionInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		auction, err := auctions.Create(c.Request.Context(), req)
		if err != nil {
			respondError(c, err, "Failed to create auction")
			return
		}
		c.JSON(http.StatusCreated, auction)
	}
}

// AuctionStatusRequest sets an auction's status label
type AuctionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetAuctionStatusHandler overrides the status of an auction
func SetAuctionStatusHandler(auctions *service.AuctionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req AuctionStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		auction, err := auctions.SetStatus(c.Request.Context(), id, domain.AuctionStatus(req.Status))
		if err != nil {
			respondError(c, err, "Failed to update auction status")
			return
		}
		c.JSON(http.StatusOK, auction)
	}
}
