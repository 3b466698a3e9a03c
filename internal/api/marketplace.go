package api

import (
	"errors"   // Error matching
	"io"       // Empty body detection
	"net/http" // HTTP status codes

	"auction_system/internal/domain"     // Importing domain models
	"auction_system/internal/middleware" // Current user
	"auction_system/internal/service"    // Services

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Listing amounts
)

// BankAccountRequest links a bank account to the caller
type BankAccountRequest struct {
	Number     *int `json:"number" binding:"required"`      // 0-999999
	BranchCode *int `json:"branch_code" binding:"required"` // 0-999999
}

// LinkBankAccountHandler links a bank account to the current user
func LinkBankAccountHandler(accounts *service.BankAccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BankAccountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user := middleware.CurrentUser(c)
		account, err := accounts.Link(c.Request.Context(), user.ID, *req.Number, *req.BranchCode)
		if err != nil {
			respondError(c, err, "Failed to link bank account")
			return
		}
		c.JSON(http.StatusCreated, account)
	}
}

// MyBankAccountHandler returns the current user's bank account
func MyBankAccountHandler(accounts *service.BankAccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, err := accounts.ForUser(c.Request.Context(), middleware.CurrentUser(c).ID)
		if err != nil {
			respondError(c, err, "Failed to fetch bank account")
			return
		}
		c.JSON(http.StatusOK, account)
	}
}

// ReferralRequest names the user being referred
type ReferralRequest struct {
	Username string `json:"username" binding:"required"`
}

// CreateReferralHandler records that the current user referred someone
func CreateReferralHandler(referrals *service.ReferralService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ReferralRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		referral, err := referrals.Refer(c.Request.Context(), middleware.CurrentUser(c).ID, req.Username)
		if err != nil {
			respondError(c, err, "Failed to record referral")
			return
		}
		c.JSON(http.StatusCreated, referral)
	}
}

// ListReferralsHandler lists the referrals made by the current user
func ListReferralsHandler(referrals *service.ReferralService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := referrals.ListByReferrer(c.Request.Context(), middleware.CurrentUser(c).ID)
		if err != nil {
			respondError(c, err, "Failed to fetch referrals")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// ListAuctionsHandler lists auctions, optionally filtered by ?status=
func ListAuctionsHandler(auctions *service.AuctionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var status domain.AuctionStatus
		if raw := c.Query("status"); raw != "" {
			parsed, err := domain.ParseAuctionStatus(raw)
			if err != nil {
				respondError(c, err, "Invalid status")
				return
			}
			status = parsed
		}
		list, err := auctions.List(c.Request.Context(), status)
		if err != nil {
			respondError(c, err, "Failed to fetch auctions")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GetAuctionHandler returns one auction
func GetAuctionHandler(auctions *service.AuctionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		auction, err := auctions.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err, "Failed to fetch auction")
			return
		}
		c.JSON(http.StatusOK, auction)
	}
}

// ListingRequest offers an amount inside an auction
type ListingRequest struct {
	Amount decimal.Decimal `json:"amount"` // Number or numeric string
}

// CreateListingHandler lists an item in an auction on behalf of the current user
func CreateListingHandler(listings *service.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		auctionID, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req ListingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		listing, err := listings.Create(c.Request.Context(), middleware.CurrentUser(c).ID, auctionID, req.Amount)
		if err != nil {
			respondError(c, err, "Failed to create listing")
			return
		}
		c.JSON(http.StatusCreated, listing)
	}
}

// ListListingsHandler lists the listings of an auction
func ListListingsHandler(listings *service.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		auctionID, ok := pathID(c, "id")
		if !ok {
			return
		}
		list, err := listings.ListByAuction(c.Request.Context(), auctionID)
		if err != nil {
			respondError(c, err, "Failed to fetch listings")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// TransactionRequest optionally sets the initial status of a purchase
type TransactionRequest struct {
	Status string `json:"status"` // Defaults to pending
}

// CreateTransactionHandler buys a listing for the current user
func CreateTransactionHandler(txns *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		listingID, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req TransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		txn, err := txns.Create(c.Request.Context(), middleware.CurrentUser(c).ID, listingID, req.Status)
		if err != nil {
			respondError(c, err, "Failed to create transaction")
			return
		}
		c.JSON(http.StatusCreated, txn)
	}
}

// ListTransactionsHandler returns the current user's purchases and sales
func ListTransactionsHandler(txns *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := txns.ListForUser(c.Request.Context(), middleware.CurrentUser(c).ID)
		if err != nil {
			respondError(c, err, "Failed to fetch transactions")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
