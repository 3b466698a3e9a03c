package service

import (
	"context" // Request scoped operations
	"errors"  // Error matching
	"fmt"     // Error wrapping

	"auction_system/internal/db"     // Storage handle
	"auction_system/internal/domain" // Importing domain models
	"auction_system/internal/events" // Event types

	"github.com/shopspring/decimal" // Listing amounts
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// ListingService lets sellers put offers into auctions.
type ListingService struct {
	store  *db.Store
	events Publisher
}

// NewListingService returns a ListingService. pub may be nil.
func NewListingService(store *db.Store, pub Publisher) *ListingService {
	return &ListingService{store: store, events: pub}
}

// Create adds a listing to an auction that has not ended.
func (s *ListingService) Create(ctx context.Context, sellerID, auctionID uint, amount decimal.Decimal) (*domain.Listing, error) {
	if !amount.IsPositive() {
		return nil, domain.Errorf(domain.ErrBadRequest, "Amount must be greater than zero")
	}
	listing := domain.Listing{SellerID: sellerID, AuctionID: auctionID, Amount: amount}
	err := s.store.WithTx(ctx, func(tx *gorm.DB) error {
		auction, err := getAuction(tx, auctionID)
		if err != nil {
			return err
		}
		if auction.Status == domain.AuctionEnded {
			return domain.Errorf(domain.ErrBadRequest, "Auction has ended")
		}
		return tx.Create(&listing).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"listing_id": listing.ID,      // New listing
		"auction_id": auctionID,       // Auction
		"seller_id":  sellerID,        // Seller
		"amount":     amount.String(), // Asking amount
	}).Info("Listing created")
	publish(s.events, events.ListingCreated, listing)
	return &listing, nil
}

// Get returns the listing or ErrNotFound.
func (s *ListingService) Get(ctx context.Context, id uint) (*domain.Listing, error) {
	return getListing(s.store.Session(ctx), id)
}

// getListing loads a listing inside tx, mapping a missing row to ErrNotFound.
func getListing(tx *gorm.DB, id uint) (*domain.Listing, error) {
	var listing domain.Listing
	err := tx.First(&listing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Errorf(domain.ErrNotFound, "Listing not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get listing %d: %w", id, err)
	}
	return &listing, nil
}

// ListByAuction returns the listings of an existing auction, oldest first.
func (s *ListingService) ListByAuction(ctx context.Context, auctionID uint) ([]domain.Listing, error) {
	session := s.store.Session(ctx)
	if _, err := getAuction(session, auctionID); err != nil {
		return nil, err
	}
	listings := []domain.Listing{}
	if err := session.Where("auction_id = ?", auctionID).Order("id").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return listings, nil
}
