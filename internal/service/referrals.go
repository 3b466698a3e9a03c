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

// ReferralService records who brought whom to the marketplace.
type ReferralService struct {
	store *db.Store
}

// NewReferralService returns a ReferralService backed by store.
func NewReferralService(store *db.Store) *ReferralService {
	return &ReferralService{store: store}
}

// Refer records that referrerID referred the user named referredUsername.
// A user can be referred once and cannot refer themselves.
func (s *ReferralService) Refer(ctx context.Context, referrerID uint, referredUsername string) (*domain.Referral, error) {
	var referral domain.Referral
	err := s.store.WithTx(ctx, func(tx *gorm.DB) error {
		var referred domain.User
		if err := tx.Where("username = ?", referredUsername).First(&referred).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.Errorf(domain.ErrNotFound, "User not found")
			}
			return err
		}
		if referred.ID == referrerID {
			return domain.Errorf(domain.ErrBadRequest, "Users cannot refer themselves")
		}
		var count int64
		if err := tx.Model(&domain.Referral{}).Where("referred_id = ?", referred.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.Errorf(domain.ErrConflict, "User %s was already referred", referredUsername)
		}
		referral = domain.Referral{ReferrerID: referrerID, ReferredID: referred.ID}
		return tx.Create(&referral).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, domain.Errorf(domain.ErrConflict, "User %s was already referred", referredUsername)
	}
	if err != nil {
		return nil, fmt.Errorf("create referral: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"referrer_id": referrerID,          // Referring user
		"referred_id": referral.ReferredID, // Referred user
	}).Info("Referral recorded")
	return &referral, nil
}

// ListByReferrer returns the referrals made by a user, oldest first.
func (s *ReferralService) ListByReferrer(ctx context.Context, referrerID uint) ([]domain.Referral, error) {
	referrals := []domain.Referral{}
	if err := s.store.Session(ctx).Where("referrer_id = ?", referrerID).Order("id").Find(&referrals).Error; err != nil {
		return nil, fmt.Errorf("list referrals: %w", err)
	}
	return referrals, nil
}
