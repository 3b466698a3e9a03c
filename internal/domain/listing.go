package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Listing Model: an offer by a seller inside an auction.
type Listing struct {
	ID        uint            `gorm:"primaryKey" json:"id"`                      // Primary key
	SellerID  uint            `gorm:"index;not null" json:"seller_id"`           // Foreign key to User
	AuctionID uint            `gorm:"index;not null" json:"auction_id"`          // Foreign key to Auction
	Amount    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"` // Asking amount, strictly positive
	CreatedAt time.Time       `json:"created_at"`                                // Creation timestamp

	Transaction *Transaction `gorm:"foreignKey:ListingID;constraint:OnDelete:RESTRICT;" json:"transaction,omitempty"`
}

// BeforeSave rejects non-positive amounts.
func (l *Listing) BeforeSave(*gorm.DB) error {
	if !l.Amount.IsPositive() {
		return Errorf(ErrBadRequest, "listing amount must be greater than zero")
	}
	return nil
}
