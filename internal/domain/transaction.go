package domain

import "time"

// DefaultTransactionStatus is assigned when the caller gives none.
const DefaultTransactionStatus = "pending"

// Transaction Model
type Transaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                           // Primary key
	ListingID uint      `gorm:"uniqueIndex;not null" json:"listing_id"`         // One transaction per listing
	BuyerID   uint      `gorm:"index;not null" json:"buyer_id"`                 // Foreign key to User buying
	SellerID  uint      `gorm:"index;not null" json:"seller_id"`                // Foreign key to User selling
	Status    string    `gorm:"size:32;not null;default:pending" json:"status"` // Free-form, e.g. pending, completed
	CreatedAt time.Time `json:"created_at"`                                     // Creation timestamp
}
