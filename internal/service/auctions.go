package service

import (
	"context" // Request scoped operations
	"errors"  // Error matching
	"fmt"     // Error wrapping
	"strings" // Input normalization
	"time"    // Clock and durations

	"auction_system/internal/db"     // Storage handle
	"auction_system/internal/domain" // Importing domain models
	"auction_system/internal/events" // Event types

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// AuctionInput carries the fields needed to open an auction.
type AuctionInput struct {
	Title     string    `json:"title" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// StatusChange is published whenever an auction moves to a new status.
type StatusChange struct {
	AuctionID uint                 `json:"auction_id"`
	From      domain.AuctionStatus `json:"from"`
	To        domain.AuctionStatus `json:"to"`
}

// AuctionService manages auctions and their status labels.
type AuctionService struct {
	store  *db.Store        // Storage handle
	events Publisher        // Optional event sink
	now    func() time.Time // Clock
}

// NewAuctionService returns an AuctionService. pub may be nil.
func NewAuctionService(store *db.Store, pub Publisher) *AuctionService {
	return &AuctionService{store: store, events: pub, now: time.Now}
}

// Create opens an auction. Its initial status follows the clock.
func (s *AuctionService) Create(ctx context.Context, in AuctionInput) (*domain.Auction, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, domain.Errorf(domain.ErrBadRequest, "Title is required")
	}
	auction := domain.Auction{
		Title:     in.Title,
		StartTime: in.StartTime.UTC(),
		EndTime:   in.EndTime.UTC(),
	}
	auction.Status = auction.StatusAt(s.now())
	if err := s.store.Session(ctx).Create(&auction).Error; err != nil {
		return nil, fmt.Errorf("create auction: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"auction_id": auction.ID,     // New auction
		"status":     auction.Status, // Initial status
	}).Info("Auction created")
	return &auction, nil
}

// Get returns the auction or ErrNotFound.
func (s *AuctionService) Get(ctx context.Context, id uint) (*domain.Auction, error) {
	return getAuction(s.store.Session(ctx), id)
}

// getAuction loads an auction inside tx, mapping a missing row to ErrNotFound.
func getAuction(tx *gorm.DB, id uint) (*domain.Auction, error) {
	var auction domain.Auction
	err := tx.First(&auction, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Errorf(domain.ErrNotFound, "Auction not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get auction %d: %w", id, err)
	}
	return &auction, nil
}

// List returns auctions ordered by start time. An empty status means all.
func (s *AuctionService) List(ctx context.Context, status domain.AuctionStatus) ([]domain.Auction, error) {
	auctions := []domain.Auction{}
	q := s.store.Session(ctx).Order("start_time, id")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&auctions).Error; err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	return auctions, nil
}

// SetStatus overrides the status label of an auction.
func (s *AuctionService) SetStatus(ctx context.Context, id uint, status domain.AuctionStatus) (*domain.Auction, error) {
	status, err := domain.ParseAuctionStatus(string(status))
	if err != nil {
		return nil, err
	}
	auction, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if auction.Status == status {
		return auction, nil
	}
	from := auction.Status
	if err := s.store.Session(ctx).Model(auction).UpdateColumn("status", status).Error; err != nil {
		return nil, fmt.Errorf("set auction status: %w", err)
	}
	auction.Status = status
	s.statusChanged(auction.ID, from, status)
	return auction, nil
}

// SyncStatuses moves every unfinished auction to the status its window implies
// at now and returns how many changed.
func (s *AuctionService) SyncStatuses(ctx context.Context, now time.Time) (int64, error) {
	var changes []StatusChange
	err := s.store.WithTx(ctx, func(tx *gorm.DB) error {
		var open []domain.Auction
		if err := tx.Where("status <> ?", domain.AuctionEnded).Find(&open).Error; err != nil {
			return err
		}
		for i := range open {
			a := &open[i]
			from, target := a.Status, a.StatusAt(now)
			if target == from {
				continue
			}
			if err := tx.Model(a).UpdateColumn("status", target).Error; err != nil {
				return err
			}
			changes = append(changes, StatusChange{AuctionID: a.ID, From: from, To: target})
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("sync auction statuses: %w", err)
	}
	for _, c := range changes {
		s.statusChanged(c.AuctionID, c.From, c.To)
	}
	return int64(len(changes)), nil
}

// statusChanged logs and publishes a status transition.
func (s *AuctionService) statusChanged(id uint, from, to domain.AuctionStatus) {
	logrus.WithFields(logrus.Fields{
		"auction_id": id,   // Auction
		"from":       from, // Previous status
		"to":         to,   // New status
	}).Info("Auction status changed")
	publish(s.events, events.AuctionStatus, StatusChange{AuctionID: id, From: from, To: to})
}
