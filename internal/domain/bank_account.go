package domain

import "gorm.io/gorm"

// MaxAccountField bounds both the account number and the branch code.
const MaxAccountField = 999999

// BankAccount Model
type BankAccount struct {
	ID         uint  `gorm:"primaryKey" json:"id"`                                                                                  // Primary key
	UserID     *uint `gorm:"uniqueIndex" json:"user_id"`                                                                            // Owner, NULL when unlinked
	Number     int   `gorm:"not null;check:chk_bank_accounts_number,number >= 0 AND number <= 999999" json:"number"`                // Account number
	BranchCode int   `gorm:"not null;check:chk_bank_accounts_branch,branch_code >= 0 AND branch_code <= 999999" json:"branch_code"` // Branch code
}

// Validate checks the numeric bounds of the account.
func (b *BankAccount) Validate() error {
	if b.Number < 0 || b.Number > MaxAccountField {
		return Errorf(ErrBadRequest, "account number must be between 0 and %d", MaxAccountField)
	}
	if b.BranchCode < 0 || b.BranchCode > MaxAccountField {
		return Errorf(ErrBadRequest, "branch code must be between 0 and %d", MaxAccountField)
	}
	return nil
}

// BeforeSave rejects out of range values before they reach the database.
func (b *BankAccount) BeforeSave(*gorm.DB) error {
	return b.Validate()
}
