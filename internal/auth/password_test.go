package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", digest)
	assert.True(t, h.Verify("s3cret", digest))
	assert.False(t, h.Verify("wrong", digest))

	again, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, digest, again, "digests are salted")
}

func TestBcryptHasher_MalformedDigest(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	assert.False(t, h.Verify("s3cret", "not-a-bcrypt-digest"))
	assert.False(t, h.Verify("s3cret", ""))
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).Cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).Cost)
	assert.Equal(t, 12, NewBcryptHasher(12).Cost)
}

var _ PasswordHasher = (*BcryptHasher)(nil)
