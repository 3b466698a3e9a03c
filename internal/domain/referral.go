package domain

import "time"

// Referral Model: a directed edge referrer -> referred.
type Referral struct {
	ID         uint      `gorm:"primaryKey" json:"id"`                    // Primary key
	ReferrerID uint      `gorm:"index;not null" json:"referrer_id"`       // User who referred
	ReferredID uint      `gorm:"uniqueIndex;not null" json:"referred_id"` // A user is referred at most once
	CreatedAt  time.Time `json:"created_at"`                              // Timestamp of the referral
}
