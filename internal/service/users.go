// Package service holds the business rules behind the HTTP handlers.
package service

import (
	"context" // Request scoped operations
	"errors"  // Error matching
	"fmt"     // Error wrapping
	"strings" // Input normalization

	"auction_system/internal/auth"   // Password hashing
	"auction_system/internal/db"     // Storage handle
	"auction_system/internal/domain" // Importing domain models
	"auction_system/internal/utils"  // Cache helpers

	"github.com/shopspring/decimal" // Coin balances
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// MaxUsernameLength matches the column size of users.username.
const MaxUsernameLength = 50

// UserInput carries the fields needed to create a user. Older clients send
// the plaintext password as password_hash; it is read when password is empty.
type UserInput struct {
	Username     string              `json:"username" form:"username"`
	Password     string              `json:"password" form:"password"`
	PasswordHash string              `json:"password_hash" form:"password_hash"`
	Name         string              `json:"name" form:"name"`
	Surname      string              `json:"surname" form:"surname"`
	Email        string              `json:"email" form:"email"`
	Phone        string              `json:"phone" form:"phone"`
	CoinBalance  decimal.NullDecimal `json:"coin_balance" form:"-"`
}

// UserService is the user directory: lookup, creation, deletion and role changes.
type UserService struct {
	store  *db.Store           // Storage handle
	hasher auth.PasswordHasher // Password hasher
	cache  *utils.Cache        // Optional users list cache
}

// NewUserService wires the directory. cache may be nil.
func NewUserService(store *db.Store, hasher auth.PasswordHasher, cache *utils.Cache) *UserService {
	return &UserService{store: store, hasher: hasher, cache: cache}
}

// Authenticate returns the user when the credentials match, nil otherwise.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil || user == nil {
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil // Wrong password is not an error
	}
	return user, nil
}

// GetByUsername returns nil, nil when no user has that username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := s.store.Session(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	return &user, nil
}

// Create hashes the password and inserts a user with the given role.
// An empty role means domain.RoleUser.
func (s *UserService) Create(ctx context.Context, in UserInput, role domain.Role) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Password == "" {
		in.Password = in.PasswordHash
	}
	if in.Username == "" || in.Password == "" {
		return nil, domain.Errorf(domain.ErrBadRequest, "Username and password are required")
	}
	if len(in.Username) > MaxUsernameLength {
		return nil, domain.Errorf(domain.ErrBadRequest, "Username must be at most %d characters", MaxUsernameLength)
	}
	if role == "" {
		role = domain.RoleUser
	}
	role, err := domain.ParseRole(string(role))
	if err != nil {
		return nil, err
	}
	existing, err := s.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Errorf(domain.ErrConflict, "Username already registered")
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		Username:     in.Username,
		Name:         in.Name,
		Surname:      in.Surname,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		CoinBalance:  in.CoinBalance,
		Role:         role,
	}
	if err := s.store.Session(ctx).Create(&user).Error; err != nil {
		// Two concurrent registrations can both pass the pre-check
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.Errorf(domain.ErrConflict, "Username already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.invalidate(ctx)
	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,       // New user ID
		"username": user.Username, // Username
		"role":     user.Role,     // Assigned role
	}).Info("User created")
	return &user, nil
}

// ListAll returns every user ordered by id, from cache when possible.
func (s *UserService) ListAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	found, err := s.cache.Get(ctx, utils.UsersListKey, &users)
	if err != nil {
		logrus.WithError(err).Warn("Users cache read failed")
	} else if found {
		return users, nil
	}
	users = []domain.User{}
	if err := s.store.Session(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if err := s.cache.Set(ctx, utils.UsersListKey, users); err != nil {
		logrus.WithError(err).Warn("Users cache write failed")
	}
	return users, nil
}

// Delete removes the user. It reports false when the username is unknown.
// Users with listings or transactions are kept (ErrConflict); the bank account
// is unlinked and referrals in either direction are removed.
func (s *UserService) Delete(ctx context.Context, username string) (bool, error) {
	deleted := false
	err := s.store.WithTx(ctx, func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		var listings, trades int64
		if err := tx.Model(&domain.Listing{}).Where("seller_id = ?", user.ID).Count(&listings).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Transaction{}).Where("buyer_id = ? OR seller_id = ?", user.ID, user.ID).Count(&trades).Error; err != nil {
			return err
		}
		if listings > 0 || trades > 0 {
			return domain.Errorf(domain.ErrConflict, "User %s has marketplace history and cannot be deleted", username)
		}
		// Unlink the bank account, skipping hooks
		if err := tx.Model(&domain.BankAccount{}).Where("user_id = ?", user.ID).UpdateColumn("user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("referrer_id = ? OR referred_id = ?", user.ID, user.ID).Delete(&domain.Referral{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&user).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		var derr *domain.Error
		if errors.As(err, &derr) {
			return false, err
		}
		return false, fmt.Errorf("delete user %q: %w", username, err)
	}
	if deleted {
		s.invalidate(ctx)
		logrus.WithField("username", username).Info("User deleted")
	}
	return deleted, nil
}

// UpdateRole sets the role of an existing user.
func (s *UserService) UpdateRole(ctx context.Context, username string, role domain.Role) (*domain.User, error) {
	role, err := domain.ParseRole(string(role))
	if err != nil {
		return nil, err
	}
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "User not found")
	}
	if err := s.store.Session(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("update role of %q: %w", username, err)
	}
	user.Role = role
	s.invalidate(ctx)
	logrus.WithFields(logrus.Fields{
		"username": username, // Target user
		"role":     role,     // New role
	}).Info("User role updated")
	return user, nil
}

// EnsureAdmin creates the user as admin, or promotes it when it already exists.
// It reports whether a new user was created.
func (s *UserService) EnsureAdmin(ctx context.Context, in UserInput) (*domain.User, bool, error) {
	existing, err := s.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		user, err := s.UpdateRole(ctx, in.Username, domain.RoleAdmin)
		return user, false, err
	}
	user, err := s.Create(ctx, in, domain.RoleAdmin)
	return user, err == nil, err
}

// invalidate drops the cached users list after a write.
func (s *UserService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, utils.UsersListKey); err != nil {
		logrus.WithError(err).Warn("Users cache invalidation failed")
	}
}
