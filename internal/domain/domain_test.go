package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("ADMIN")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	r, err = ParseRole(" user ")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, r)

	_, err = ParseRole("superuser")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestUserIsAdmin(t *testing.T) {
	var nobody *User
	assert.False(t, nobody.IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
}

func TestBankAccountValidate(t *testing.T) {
	assert.NoError(t, (&BankAccount{Number: 0, BranchCode: MaxAccountField}).Validate())
	assert.ErrorIs(t, (&BankAccount{Number: -1}).Validate(), ErrBadRequest)
	assert.ErrorIs(t, (&BankAccount{Number: 1, BranchCode: MaxAccountField + 1}).Validate(), ErrBadRequest)
	assert.ErrorIs(t, (&BankAccount{Number: MaxAccountField + 1}).Validate(), ErrBadRequest)
	assert.ErrorIs(t, (&BankAccount{Number: 1, BranchCode: -1}).Validate(), ErrBadRequest)
	assert.NoError(t, (&BankAccount{Number: MaxAccountField, BranchCode: 0}).Validate())
}

func TestAuctionStatusAt(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	a := &Auction{StartTime: start, EndTime: start.Add(time.Hour)}

	assert.Equal(t, AuctionUpcoming, a.StatusAt(start.Add(-time.Second)))
	assert.Equal(t, AuctionStarted, a.StatusAt(start))
	assert.Equal(t, AuctionEnded, a.StatusAt(start.Add(time.Hour)))
}

func TestAuctionBeforeSave(t *testing.T) {
	start := time.Now()
	a := &Auction{StartTime: start, EndTime: start.Add(time.Minute)}
	require.NoError(t, a.BeforeSave(nil))
	assert.Equal(t, AuctionUpcoming, a.Status)

	bad := &Auction{StartTime: start, EndTime: start.Add(-time.Minute)}
	assert.ErrorIs(t, bad.BeforeSave(nil), ErrBadRequest)

	weird := &Auction{StartTime: start, EndTime: start.Add(time.Minute), Status: "PAUSED"}
	assert.ErrorIs(t, weird.BeforeSave(nil), ErrBadRequest)
}

func TestParseAuctionStatus(t *testing.T) {
	s, err := ParseAuctionStatus("started")
	require.NoError(t, err)
	assert.Equal(t, AuctionStarted, s)

	_, err = ParseAuctionStatus("")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestListingBeforeSave(t *testing.T) {
	assert.NoError(t, (&Listing{Amount: decimal.RequireFromString("0.01")}).BeforeSave(nil))
	assert.ErrorIs(t, (&Listing{Amount: decimal.Zero}).BeforeSave(nil), ErrBadRequest)
	assert.ErrorIs(t, (&Listing{Amount: decimal.NewFromInt(-3)}).BeforeSave(nil), ErrBadRequest)
}
