// Package dbtest opens throwaway migrated SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"auction_system/internal/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Open returns a migrated database living in t.TempDir.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	url := "sqlite://" + filepath.Join(t.TempDir(), "test.db")
	gdb, err := db.Open(url)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// Store is Open wrapped in a db.Store.
func Store(t testing.TB) *db.Store {
	t.Helper()
	return db.NewStore(Open(t))
}
