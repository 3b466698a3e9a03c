package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// AuctionStatus is the lifecycle label of an auction. It is set from outside
// the model (admin endpoint or the status sync), never derived on read.
type AuctionStatus string

const (
	AuctionUpcoming AuctionStatus = "UPCOMING"
	AuctionStarted  AuctionStatus = "STARTED"
	AuctionEnded    AuctionStatus = "ENDED"
)

// ParseAuctionStatus normalizes case and rejects unknown values.
func ParseAuctionStatus(raw string) (AuctionStatus, error) {
	s := AuctionStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case AuctionUpcoming, AuctionStarted, AuctionEnded:
		return s, nil
	}
	return "", Errorf(ErrBadRequest, "unknown auction status %q", raw)
}

// Auction Model
type Auction struct {
	ID        uint          `gorm:"primaryKey" json:"id"`                                  // Primary key
	Title     string        `gorm:"size:120;not null" json:"title"`                        // Display title
	StartTime time.Time     `gorm:"not null;index" json:"start_time"`                      // Opens for listings
	EndTime   time.Time     `gorm:"not null;index" json:"end_time"`                        // Closes for listings
	Status    AuctionStatus `gorm:"size:16;not null;default:UPCOMING;index" json:"status"` // UPCOMING, STARTED or ENDED
	CreatedAt time.Time     `json:"created_at"`                                            // Creation timestamp

	Listings []Listing `gorm:"foreignKey:AuctionID;constraint:OnDelete:CASCADE;" json:"listings,omitempty"`
}

// StatusAt returns the status the auction should carry at the given instant.
func (a *Auction) StatusAt(now time.Time) AuctionStatus {
	switch {
	case !now.Before(a.EndTime):
		return AuctionEnded
	case !now.Before(a.StartTime):
		return AuctionStarted
	default:
		return AuctionUpcoming
	}
}

// BeforeSave enforces start < end and a known status.
func (a *Auction) BeforeSave(*gorm.DB) error {
	if !a.StartTime.Before(a.EndTime) {
		return Errorf(ErrBadRequest, "auction start_time must be before end_time")
	}
	if a.Status == "" {
		a.Status = AuctionUpcoming
	}
	if _, err := ParseAuctionStatus(string(a.Status)); err != nil {
		return err
	}
	return nil
}
