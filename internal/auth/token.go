package auth

import (
	"errors" // Error construction
	"fmt"    // Error wrapping
	"time"   // Token lifetimes

	"auction_system/internal/domain" // Sentinel errors

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// DefaultTokenTTL is used when neither the caller nor the config sets a lifetime.
const DefaultTokenTTL = 10 * time.Minute

// Claims carried by an access token. The subject is the username.
type Claims struct {
	jwt.RegisteredClaims // Standard JWT claims (sub, exp, iat)
}

// TokenService issues and validates signed bearer tokens.
// It is immutable after construction and safe for concurrent use.
type TokenService struct {
	secret []byte            // HMAC key
	method jwt.SigningMethod // HS256, HS384 or HS512
	ttl    time.Duration     // Default lifetime
	now    func() time.Time  // Clock, replaceable in tests
}

// Option customizes a TokenService.
type Option func(*TokenService)

// WithClock replaces the time source used for iat/exp and for validation.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

var signingMethods = map[string]jwt.SigningMethod{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// NewTokenService validates the secret and algorithm once at startup.
func NewTokenService(secret, algorithm string, ttl time.Duration, opts ...Option) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	method, ok := signingMethods[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	s := &TokenService{secret: []byte(secret), method: method, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the default token lifetime.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue creates a token for subject that expires after ttl.
// A non-positive ttl falls back to the service default.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject must not be empty")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,                          // Username
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Expiry
			IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
		},
	}
	token := jwt.NewWithClaims(s.method, claims) // Create token with claims
	return token.SignedString(s.secret)          // Sign the token with the secret
}

// Validate checks signature, algorithm and expiry and returns the subject.
// Every failure wraps domain.ErrInvalidToken.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	claims := &Claims{}
	keyFunc := func(*jwt.Token) (any, error) {
		return s.secret, nil // Return the secret key for validation
	}
	token, err := jwt.ParseWithClaims(tokenStr, claims, keyFunc,
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}
	return claims.Subject, nil
}
