package api

import (
	"net/http" // HTTP status codes

	"auction_system/internal/auth"    // Token service
	"auction_system/internal/domain"  // Importing domain models
	"auction_system/internal/service" // User directory

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// LoginRequest accepts form fields (OAuth2 password flow) or JSON.
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"` // Username must be provided
	Password string `form:"password" json:"password" binding:"required"` // Password must be provided
}

// TokenResponse is the bearer token returned on login
type TokenResponse struct {
	AccessToken string `json:"access_token"` // Signed JWT
	TokenType   string `json:"token_type"`   // Always "bearer"
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(users *service.UserService, tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "username and password are required"})
			return
		}
		user, err := users.Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, err, "Failed to authenticate")
			return
		}
		if user == nil {
			// Unknown user and wrong password look the same to the client
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
			return
		}
		token, err := tokens.Issue(user.Username, tokens.TTL())
		if err != nil {
			respondError(c, err, "Failed to generate token")
			return
		}
		logrus.WithField("username", user.Username).Info("Token issued")
		c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}

// RegisterHandler creates a regular user. The role is always domain.RoleUser.
func RegisterHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.UserInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := users.Create(c.Request.Context(), req, domain.RoleUser)
		if err != nil {
			respondError(c, err, "Failed to register user")
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}
