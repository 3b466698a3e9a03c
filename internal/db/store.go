package db

import (
	"context" // Request scoped sessions

	"gorm.io/gorm" // GORM ORM library
)

// Store hands out request scoped GORM sessions over one shared pool.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an opened database.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying handle.
func (s *Store) DB() *gorm.DB { return s.db }

// Session returns a handle bound to ctx. It is released when ctx ends.
func (s *Store) Session(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// WithTx runs fn in a single transaction; a returned error rolls it back.
func (s *Store) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
