package db

import (
	"fmt" // Error wrapping

	"auction_system/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // GORM ORM library
)

// Models lists every table in the schema, owners before dependents.
func Models() []any {
	return []any{
		&domain.User{},
		&domain.BankAccount{},
		&domain.Referral{},
		&domain.Auction{},
		&domain.Listing{},
		&domain.Transaction{},
	}
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
