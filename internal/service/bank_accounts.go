package service

import (
	"context" // Request scoped operations
	"errors"  // Error matching
	"fmt"     // Error wrapping

	"auction_system/internal/db"     // Storage handle
	"auction_system/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// BankAccountService links at most one bank account to a user.
type BankAccountService struct {
	store *db.Store
}

// NewBankAccountService returns a BankAccountService backed by store.
func NewBankAccountService(store *db.Store) *BankAccountService {
	return &BankAccountService{store: store}
}

// Link creates the user's bank account.
func (s *BankAccountService) Link(ctx context.Context, userID uint, number, branchCode int) (*domain.BankAccount, error) {
	account := domain.BankAccount{UserID: &userID, Number: number, BranchCode: branchCode}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	err := s.store.WithTx(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.BankAccount{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.Errorf(domain.ErrConflict, "User already has a bank account")
		}
		return tx.Create(&account).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, domain.Errorf(domain.ErrConflict, "User already has a bank account")
	}
	if err != nil {
		return nil, fmt.Errorf("link bank account: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":    userID,     // Owner
		"account_id": account.ID, // New account
	}).Info("Bank account linked")
	return &account, nil
}

// ForUser returns the user's bank account or ErrNotFound.
func (s *BankAccountService) ForUser(ctx context.Context, userID uint) (*domain.BankAccount, error) {
	var account domain.BankAccount
	err := s.store.Session(ctx).Where("user_id = ?", userID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Errorf(domain.ErrNotFound, "Bank account not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get bank account: %w", err)
	}
	return &account, nil
}
