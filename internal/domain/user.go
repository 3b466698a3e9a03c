package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Role is the permission tier of a user.
type Role string

const (
	RoleUser  Role = "user"  // Regular marketplace participant
	RoleAdmin Role = "admin" // Can manage users and auctions
)

// ParseRole accepts "user"/"admin" in any case and rejects everything else.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", Errorf(ErrBadRequest, "unknown role %q", raw)
}

// User Model
type User struct {
	ID           uint                `gorm:"primaryKey" json:"id"`                         // Primary key
	Username     string              `gorm:"size:50;uniqueIndex;not null" json:"username"` // Unique username
	Name         string              `gorm:"size:50;not null" json:"name"`                 // First name
	Surname      string              `gorm:"size:50;not null" json:"surname"`              // Last name
	Email        string              `gorm:"size:255;not null" json:"email"`               // Contact email
	Phone        string              `gorm:"size:32" json:"phone"`                         // Contact phone
	PasswordHash string              `gorm:"not null" json:"-"`                            // bcrypt digest, never serialized
	CoinBalance  decimal.NullDecimal `gorm:"type:decimal(20,2)" json:"coin_balance"`       // Optional coin balance
	Role         Role                `gorm:"size:16;not null;default:user" json:"role"`    // user or admin
	CreatedAt    time.Time           `json:"created_at"`                                   // Creation timestamp
	UpdatedAt    time.Time           `json:"updated_at"`                                   // Last update timestamp

	// Relationships. Deletion rules are enforced by UserService.Delete as well.
	BankAccount    *BankAccount  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"bank_account,omitempty"`
	Referrals      []Referral    `gorm:"foreignKey:ReferrerID;constraint:OnDelete:CASCADE;" json:"-"`
	ReferralRecord *Referral     `gorm:"foreignKey:ReferredID;constraint:OnDelete:CASCADE;" json:"-"`
	Listings       []Listing     `gorm:"foreignKey:SellerID;constraint:OnDelete:RESTRICT;" json:"-"`
	Purchases      []Transaction `gorm:"foreignKey:BuyerID;constraint:OnDelete:RESTRICT;" json:"-"`
	Sales          []Transaction `gorm:"foreignKey:SellerID;constraint:OnDelete:RESTRICT;" json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
