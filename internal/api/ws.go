package api

import (
	"auction_system/internal/events"     // Event hub
	"auction_system/internal/middleware" // Current user

	"github.com/gin-gonic/gin" // Gin web framework
)

// MarketplaceWSHandler streams marketplace events to the authenticated caller.
func MarketplaceWSHandler(hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		events.ServeWS(c.Writer, c.Request, hub, middleware.CurrentUser(c).Username)
	}
}
