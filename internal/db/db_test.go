package db_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"auction_system/internal/db"
	"auction_system/internal/db/dbtest"
	"auction_system/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDialector(t *testing.T) {
	cases := []struct {
		url  string
		name string
	}{
		{"sqlite://file.db", "sqlite"},
		{"", "sqlite"},
		{"mysql://root:pw@tcp(localhost:3306)/auction?parseTime=true", "mysql"},
		{"postgres://u:p@localhost:5432/auction?sslmode=disable", "postgres"},
		{"postgresql://u:p@localhost/auction", "postgres"},
	}
	for _, tc := range cases {
		d, err := db.Dialector(tc.url)
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.name, d.Name(), tc.url)
	}

	_, err := db.Dialector("mongodb://localhost")
	assert.Error(t, err)
}

func TestMigrate_CreatesSchema(t *testing.T) {
	gdb := dbtest.Open(t)
	for _, m := range db.Models() {
		assert.True(t, gdb.Migrator().HasTable(m))
	}
	// Running twice is a no-op.
	require.NoError(t, db.Migrate(gdb))
}

func TestUniqueUsernameIsTranslated(t *testing.T) {
	gdb := dbtest.Open(t)
	require.NoError(t, gdb.Create(&domain.User{Username: "alice", Name: "A", Surname: "L", Email: "a@x", PasswordHash: "h"}).Error)

	err := gdb.Create(&domain.User{Username: "alice", Name: "B", Surname: "M", Email: "b@x", PasswordHash: "h"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestLoggerHidesColumnValues(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true})

	gdb := dbtest.Open(t).Session(&gorm.Session{Logger: db.NewLogger(l)})
	const hash = "$2a$04$abcdefghijklmnopqrstuvwxyz0123456789ABCDEFGHIJKL"
	require.NoError(t, gdb.Create(&domain.User{Username: "carol", Name: "C", Surname: "R", Email: "c@x", PasswordHash: hash}).Error)

	err := gdb.Create(&domain.User{Username: "carol", Name: "D", Surname: "S", Email: "d@x", PasswordHash: hash}).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	out := buf.String()
	assert.Contains(t, out, "level=error")
	assert.Contains(t, out, "INSERT INTO")
	assert.NotContains(t, out, hash)
	assert.NotContains(t, out, "level=info")
}

func TestForeignKeysAreEnforced(t *testing.T) {
	gdb := dbtest.Open(t)
	auction := domain.Auction{Title: "a", StartTime: time.Now(), EndTime: time.Now().Add(time.Hour)}
	require.NoError(t, gdb.Create(&auction).Error)

	err := gdb.Create(&domain.Listing{SellerID: 999, AuctionID: auction.ID, Amount: decimal.NewFromInt(5)}).Error
	assert.Error(t, err)
}

func TestStore_WithTxRollsBack(t *testing.T) {
	store := dbtest.Store(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&domain.User{Username: "temp", Name: "T", Surname: "T", Email: "t@x", PasswordHash: "h"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, store.Session(ctx).Model(&domain.User{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.NoError(t, store.Ping(ctx))
}

func TestHooksRejectInvalidRows(t *testing.T) {
	gdb := dbtest.Open(t)

	err := gdb.Create(&domain.BankAccount{Number: 1000000, BranchCode: 1}).Error
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	now := time.Now()
	err = gdb.Create(&domain.Auction{Title: "bad", StartTime: now, EndTime: now}).Error
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}
