package middleware

import (
	"context"  // Request context for lookups
	"errors"   // Error matching
	"fmt"      // Error wrapping
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"auction_system/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Messages returned by the gate.
const (
	MsgUnauthorized = "Could not validate credentials"
	MsgForbidden    = "Not enough permissions"
)

const currentUserKey = "currentUser"

// TokenValidator turns a bearer token into its subject.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// UserLookup resolves a token subject to a user; nil, nil means unknown.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Gate authenticates bearer tokens and checks roles.
type Gate struct {
	tokens TokenValidator // Token service
	users  UserLookup     // User directory
}

// NewGate builds the auth gate.
func NewGate(tokens TokenValidator, users UserLookup) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Authenticate resolves an Authorization header value to a user.
// Every failure is domain.ErrUnauthorized.
func (g *Gate) Authenticate(ctx context.Context, header string) (*domain.User, error) {
	token, ok := bearerToken(header)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return g.authenticateToken(ctx, token)
}

func (g *Gate) authenticateToken(ctx context.Context, token string) (*domain.User, error) {
	subject, err := g.tokens.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	user, err := g.users.GetByUsername(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized // Token for a deleted user
	}
	return user, nil
}

// Authorize checks that user holds role. Admins pass every check.
func (g *Gate) Authorize(user *domain.User, role domain.Role) error {
	if user == nil {
		return domain.ErrUnauthorized
	}
	if user.Role == role || user.IsAdmin() {
		return nil
	}
	return domain.ErrForbidden
}

// RequireUser authenticates the Authorization header and stores the user in the context
func (g *Gate) RequireUser() gin.HandlerFunc {
	return g.require("", false)
}

// RequireRole is RequireUser plus a role check
func (g *Gate) RequireRole(role domain.Role) gin.HandlerFunc {
	return g.require(role, false)
}

// RequireSubscriber also accepts the token as a ?token= query parameter
// for websocket handshakes.
func (g *Gate) RequireSubscriber() gin.HandlerFunc {
	return g.require("", true)
}

func (g *Gate) require(role domain.Role, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization") // Get Authorization header
		var (
			user *domain.User
			err  error
		)
		if token := c.Query("token"); allowQuery && header == "" && token != "" {
			user, err = g.authenticateToken(c.Request.Context(), token)
		} else {
			user, err = g.Authenticate(c.Request.Context(), header)
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"path":  c.FullPath(), // Route
				"error": err.Error(),  // Cause
			}).Debug("Authentication failed")
			AbortUnauthorized(c)
			return
		}
		if role != "" {
			if err := g.Authorize(user, role); errors.Is(err, domain.ErrForbidden) {
				AbortForbidden(c)
				return
			}
		}
		c.Set(currentUserKey, user) // Store user in context
		c.Next()                    // Proceed to the next handler
	}
}

// CurrentUser returns the user stored by the gate, or nil on public routes.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

// AbortUnauthorized writes the standard 401 response.
func AbortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": MsgUnauthorized})
}

// AbortForbidden writes the standard 403 response.
func AbortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": MsgForbidden})
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
