package api

import (
	"auction_system/internal/auth"       // Token service
	"auction_system/internal/db"         // Storage handle
	"auction_system/internal/domain"     // Roles
	"auction_system/internal/events"     // Event hub
	"auction_system/internal/middleware" // Auth gate and request logging
	"auction_system/internal/service"    // Services

	"github.com/gin-gonic/gin" // Gin web framework
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Store        *db.Store
	Tokens       *auth.TokenService
	Users        *service.UserService
	BankAccounts *service.BankAccountService
	Referrals    *service.ReferralService
	Auctions     *service.AuctionService
	Listings     *service.ListingService
	Transactions *service.TransactionService
	Hub          *events.Hub
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	_ = r.SetTrustedProxies(nil) // Do not trust any proxy headers
	Setup(r, d)
	return r
}

// Setup registers routes on r.
func Setup(r *gin.Engine, d Deps) {
	gate := middleware.NewGate(d.Tokens, d.Users)
	requireUser := gate.RequireUser()
	requireAdmin := gate.RequireRole(domain.RoleAdmin)

	r.GET("/health", HealthHandler(d.Store))

	// Public routes
	r.POST("/token", LoginHandler(d.Users, d.Tokens))
	r.POST("/auth/token", LoginHandler(d.Users, d.Tokens))

	users := r.Group("/users")
	{
		users.POST("/register", RegisterHandler(d.Users))
		users.GET("", requireUser, ListUsersHandler(d.Users))
		users.GET("/", requireUser, ListUsersHandler(d.Users))
		users.GET("/me", requireUser, MeHandler())
		users.GET("/:username", requireUser, GetUserHandler(d.Users))

		// Admin routes
		users.POST("", requireAdmin, CreateUserHandler(d.Users))
		users.POST("/", requireAdmin, CreateUserHandler(d.Users))
		users.DELETE("/:username", requireAdmin, DeleteUserHandler(d.Users))
		users.PUT("/:username/role", requireAdmin, UpdateRoleHandler(d.Users))
	}

	// Protected marketplace routes
	r.POST("/bank-accounts", requireUser, LinkBankAccountHandler(d.BankAccounts))
	r.GET("/bank-accounts/me", requireUser, MyBankAccountHandler(d.BankAccounts))
	r.POST("/referrals", requireUser, CreateReferralHandler(d.Referrals))
	r.GET("/referrals", requireUser, ListReferralsHandler(d.Referrals))

	auctions := r.Group("/auctions")
	{
		auctions.GET("", requireUser, ListAuctionsHandler(d.Auctions))
		auctions.GET("/:id", requireUser, GetAuctionHandler(d.Auctions))
		auctions.POST("", requireAdmin, CreateAuctionHandler(d.Auctions))
		auctions.PUT("/:id/status", requireAdmin, SetAuctionStatusHandler(d.Auctions))
		auctions.POST("/:id/listings", requireUser, CreateListingHandler(d.Listings))
		auctions.GET("/:id/listings", requireUser, ListListingsHandler(d.Listings))
	}

	r.POST("/listings/:id/transactions", requireUser, CreateTransactionHandler(d.Transactions))
	r.GET("/transactions", requireUser, ListTransactionsHandler(d.Transactions))
	r.GET("/ws/marketplace", gate.RequireSubscriber(), MarketplaceWSHandler(d.Hub))
}
