package service

import (
	"context"
	"testing"
	"time"

	"auction_system/internal/db/dbtest"
	"auction_system/internal/domain"
	"auction_system/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateAndAuthenticate(t *testing.T) {
	users := newUserService(t, newStore(t))
	ctx := context.Background()

	created := mustCreateUser(t, users, "alice", "")
	assert.NotZero(t, created.ID)
	assert.Equal(t, domain.RoleUser, created.Role)
	assert.NotEqual(t, "alice-pw", created.PasswordHash)

	got, err := users.Authenticate(ctx, "alice", "alice-pw")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)

	got, err = users.Authenticate(ctx, "alice", "wrong")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = users.Authenticate(ctx, "nobody", "alice-pw")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserService_CreateValidation(t *testing.T) {
	users := newUserService(t, newStore(t))
	ctx := context.Background()

	_, err := users.Create(ctx, UserInput{Username: "", Password: "pw"}, "")
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	_, err = users.Create(ctx, UserInput{Username: "bob", Password: ""}, "")
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	long := make([]byte, MaxUsernameLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = users.Create(ctx, UserInput{Username: string(long), Password: "pw"}, "")
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	_, err = users.Create(ctx, UserInput{Username: "bob", Password: "pw"}, "owner")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestUserService_CreateAcceptsPasswordHashField(t *testing.T) {
	users := newUserService(t, newStore(t))
	ctx := context.Background()

	in := UserInput{Username: "dana", PasswordHash: "dana-secret", Name: "D", Surname: "A", Email: "dana@x"}
	created, err := users.Create(ctx, in, "")
	require.NoError(t, err)
	assert.NotEqual(t, "dana-secret", created.PasswordHash)

	got, err := users.Authenticate(ctx, "dana", "dana-secret")
	require.NoError(t, err)
	require.NotNil(t, got)

	// password wins when both are sent
	in = UserInput{Username: "erin", Password: "real", PasswordHash: "ignored", Name: "E", Surname: "R", Email: "erin@x"}
	_, err = users.Create(ctx, in, "")
	require.NoError(t, err)
	got, err = users.Authenticate(ctx, "erin", "ignored")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserService_DuplicateUsername(t *testing.T) {
	users := newUserService(t, newStore(t))
	ctx := context.Background()

	first := mustCreateUser(t, users, "alice", domain.RoleUser)

	_, err := users.Create(ctx, UserInput{Username: "alice", Password: "other", Email: "other@example.com"}, domain.RoleAdmin)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Username already registered", err.Error())

	stored, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, first.Email, stored.Email)
	assert.Equal(t, domain.RoleUser, stored.Role)
	assert.Equal(t, first.PasswordHash, stored.PasswordHash)
}

func TestUserService_GetByUsernameMissing(t *testing.T) {
	users := newUserService(t, newStore(t))
	u, err := users.GetByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserService_ListAllOrdered(t *testing.T) {
	users := newUserService(t, newStore(t))
	mustCreateUser(t, users, "zed", "")
	mustCreateUser(t, users, "amy", "")

	list, err := users.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "zed", list[0].Username)
	assert.Equal(t, "amy", list[1].Username)
}

func TestUserService_ListAllUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := dbtest.Store(t)
	users := newUserService(t, store)
	users.cache = utils.NewCache(rdb, time.Minute)
	ctx := context.Background()

	mustCreateUser(t, users, "alice", "")
	list, err := users.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, mr.Exists(utils.UsersListKey))

	// A row written behind the service's back is invisible until invalidation.
	require.NoError(t, store.DB().Create(&domain.User{Username: "sneaky", Name: "S", Surname: "S", Email: "s@x", PasswordHash: "h"}).Error)
	list, err = users.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	mustCreateUser(t, users, "bob", "")
	assert.False(t, mr.Exists(utils.UsersListKey))
	list, err = users.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestUserService_UpdateRole(t *testing.T) {
	users := newUserService(t, newStore(t))
	ctx := context.Background()
	mustCreateUser(t, users, "alice", "")

	u, err := users.UpdateRole(ctx, "alice", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	stored, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, stored.IsAdmin())

	_, err = users.UpdateRole(ctx, "ghost", domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = users.UpdateRole(ctx, "alice", "superuser")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestUserService_DeleteUnknown(t *testing.T) {
	users := newUserService(t, newStore(t))
	ok, err := users.Delete(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserService_DeleteUnlinksAndCascades(t *testing.T) {
	store := newStore(t)
	users := newUserService(t, store)
	ctx := context.Background()

	alice := mustCreateUser(t, users, "alice", "")
	bob := mustCreateUser(t, users, "bob", "")
	carol := mustCreateUser(t, users, "carol", "")

	account, err := NewBankAccountService(store).Link(ctx, alice.ID, 123456, 42)
	require.NoError(t, err)
	referrals := NewReferralService(store)
	_, err = referrals.Refer(ctx, alice.ID, "bob")
	require.NoError(t, err)
	_, err = referrals.Refer(ctx, carol.ID, "alice")
	require.NoError(t, err)

	ok, err := users.Delete(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	gone, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, gone)

	var kept domain.BankAccount
	require.NoError(t, store.DB().First(&kept, account.ID).Error)
	assert.Nil(t, kept.UserID)

	var count int64
	require.NoError(t, store.DB().Model(&domain.Referral{}).Count(&count).Error)
	assert.Zero(t, count)

	still, err := users.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, still.ID)
}

func TestUserService_DeleteRestrictedByMarketplaceHistory(t *testing.T) {
	store := newStore(t)
	users := newUserService(t, store)
	ctx := context.Background()

	seller := mustCreateUser(t, users, "seller", "")
	auctions := NewAuctionService(store, nil)
	a, err := auctions.Create(ctx, AuctionInput{Title: "Lot", StartTime: time.Now().Add(-time.Hour), EndTime: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	_, err = NewListingService(store, nil).Create(ctx, seller.ID, a.ID, decimal.NewFromInt(10))
	require.NoError(t, err)

	ok, err := users.Delete(ctx, "seller")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.False(t, ok)

	still, err := users.GetByUsername(ctx, "seller")
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	users := newUserService(t, newStore(t))
	ctx := context.Background()

	u, created, err := users.EnsureAdmin(ctx, UserInput{Username: "root", Password: "pw", Email: "root@example.com"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, u.IsAdmin())

	mustCreateUser(t, users, "alice", "")
	u, created, err = users.EnsureAdmin(ctx, UserInput{Username: "alice", Password: "ignored"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, u.IsAdmin())
}
