package service

import (
	"context" // Request scoped operations
	"errors"  // Error matching
	"fmt"     // Error wrapping
	"strings" // Input normalization

	"auction_system/internal/db"     // Storage handle
	"auction_system/internal/domain" // Importing domain models
	"auction_system/internal/events" // Event types

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// TransactionService records purchases of listings.
type TransactionService struct {
	store  *db.Store
	events Publisher
}

// NewTransactionService returns a TransactionService. pub may be nil.
func NewTransactionService(store *db.Store, pub Publisher) *TransactionService {
	return &TransactionService{store: store, events: pub}
}

// Create records that buyerID bought the listing. The seller comes from the
// listing; a listing can be bought once.
func (s *TransactionService) Create(ctx context.Context, buyerID, listingID uint, status string) (*domain.Transaction, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		status = domain.DefaultTransactionStatus
	}
	var (
		txn    domain.Transaction
		seller domain.User
	)
	err := s.store.WithTx(ctx, func(tx *gorm.DB) error {
		listing, err := getListing(tx, listingID)
		if err != nil {
			return err
		}
		if listing.SellerID == buyerID {
			return domain.Errorf(domain.ErrBadRequest, "Sellers cannot buy their own listing")
		}
		var count int64
		if err := tx.Model(&domain.Transaction{}).Where("listing_id = ?", listingID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.Errorf(domain.ErrConflict, "Listing already sold")
		}
		if err := tx.Select("id", "username").First(&seller, listing.SellerID).Error; err != nil {
			return err
		}
		txn = domain.Transaction{ListingID: listingID, BuyerID: buyerID, SellerID: listing.SellerID, Status: status}
		return tx.Create(&txn).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, domain.Errorf(domain.ErrConflict, "Listing already sold")
	}
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"transaction_id": txn.ID,       // New transaction
		"listing_id":     listingID,    // Listing sold
		"buyer_id":       buyerID,      // Buyer
		"seller_id":      txn.SellerID, // Seller
	}).Info("Transaction created")
	publish(s.events, events.TransactionCreated, txn)
	notify(s.events, seller.Username, events.ListingSold, txn)
	return &txn, nil
}

// ListForUser returns the user's purchases and sales, newest first.
func (s *TransactionService) ListForUser(ctx context.Context, userID uint) ([]domain.Transaction, error) {
	txns := []domain.Transaction{}
	err := s.store.Session(ctx).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("id desc").
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}
