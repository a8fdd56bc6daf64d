package auth

import (
	"testing"

	"market/config"

	"github.com/stretchr/testify/assert"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{})

	password := "examplePassword123"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// Test correct password
	assert.True(t, hasher.Check(password, hash))

	// Test incorrect password
	assert.False(t, hasher.Check("wrongPassword", hash))

	// Test empty password
	assert.False(t, hasher.Check("", hash))

	// Test with invalid hash
	assert.False(t, hasher.Check(password, "invalid_hash"))
}

func TestBcryptHasher_DistinctSalts(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{})

	first, err := hasher.Hash("examplePassword123")
	assert.NoError(t, err)
	second, err := hasher.Hash("examplePassword123")
	assert.NoError(t, err)

	// Each hash carries its own salt.
	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_ConfiguredCost(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: 4}}
	hasher := NewBcryptHasher(cfg)

	hash, err := hasher.Hash("examplePassword123")
	assert.NoError(t, err)
	assert.True(t, hasher.Check("examplePassword123", hash))
}
