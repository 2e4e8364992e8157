package auth

import (
	"testing"

	"flagpole/config"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHasherConfig(algorithm string) config.HasherConfig {
	return config.HasherConfig{
		Algorithm:  algorithm,
		Salt:       "default-salt",
		Iterations: 2, // low cost for faster testing
		KeyLength:  32,
		MemoryKiB:  1024,
		Threads:    1,
	}
}

func TestKDFHasher_GetHash(t *testing.T) {
	for _, algorithm := range []string{AlgorithmPBKDF2, AlgorithmArgon2ID} {
		t.Run(algorithm, func(t *testing.T) {
			hasher, err := NewPasswordHasher(testHasherConfig(algorithm))
			require.NoError(t, err)

			hash := hasher.GetHash("password", "password")
			assert.Len(t, hash, 64)
			assert.NotEqual(t, "password", hash)

			again := hasher.GetHash("password", "password")
			assert.Equal(t, hash, again)
		})
	}
}

func TestKDFHasher_DifferentSalt(t *testing.T) {
	hasher, err := NewPasswordHasher(testHasherConfig(AlgorithmPBKDF2))
	require.NoError(t, err)

	first := hasher.GetHash("password", "salt1")
	second := hasher.GetHash("password", "salt2")

	assert.NotEqual(t, first, second)
}

func TestKDFHasher_EmptySaltUsesConfiguredSalt(t *testing.T) {
	hasher, err := NewPasswordHasher(testHasherConfig(AlgorithmPBKDF2))
	require.NoError(t, err)

	implicit := hasher.GetHash("", "")
	explicit := hasher.GetHash("", "default-salt")

	assert.Equal(t, explicit, implicit)
}

func TestKDFHasher_SymbolsAndEmptySecret(t *testing.T) {
	hasher, err := NewPasswordHasher(testHasherConfig(AlgorithmPBKDF2))
	require.NoError(t, err)

	symbols := "!@#$%^&*()_+-=,./;'[]|}{:"
	first := hasher.GetHash(symbols, symbols)
	second := hasher.GetHash(symbols, symbols)
	assert.Equal(t, first, second)

	empty := hasher.GetHash("", "")
	assert.NotEmpty(t, empty)
}

func TestKDFHasher_ReconfiguredHasherDiffers(t *testing.T) {
	original, err := NewPasswordHasher(testHasherConfig(AlgorithmPBKDF2))
	require.NoError(t, err)

	cfg := testHasherConfig(AlgorithmPBKDF2)
	cfg.Salt = "salt1"
	cfg.Iterations = 3
	reconfigured, err := NewPasswordHasher(cfg)
	require.NoError(t, err)

	before := original.GetHash("password", "")
	after := reconfigured.GetHash("password", "")

	assert.NotEqual(t, before, after)
}

func TestKDFHasher_AlgorithmsDiffer(t *testing.T) {
	pbkdf2Hasher, err := NewPasswordHasher(testHasherConfig(AlgorithmPBKDF2))
	require.NoError(t, err)
	argonHasher, err := NewPasswordHasher(testHasherConfig(AlgorithmArgon2ID))
	require.NoError(t, err)

	a := pbkdf2Hasher.GetHash("password", "salt")
	b := argonHasher.GetHash("password", "salt")

	assert.NotEqual(t, a, b)
}

func TestKDFHasher_Verify(t *testing.T) {
	hasher, err := NewPasswordHasher(testHasherConfig(AlgorithmArgon2ID))
	require.NoError(t, err)

	hash := hasher.GetHash("StrongPass123!", "salt")

	assert.True(t, hasher.Verify("StrongPass123!", "salt", hash))
	assert.False(t, hasher.Verify("WrongPassword123!", "salt", hash))
	assert.False(t, hasher.Verify("StrongPass123!", "other", hash))
	assert.False(t, hasher.Verify("StrongPass123!", "salt", "invalid_hash"))
}

func TestNewPasswordHasher_InvalidConfig(t *testing.T) {
	testCases := map[string]func(*config.HasherConfig){
		"zero iterations":   func(c *config.HasherConfig) { c.Iterations = 0 },
		"zero key length":   func(c *config.HasherConfig) { c.KeyLength = 0 },
		"unknown algorithm": func(c *config.HasherConfig) { c.Algorithm = "md5" },
		"too many threads":  func(c *config.HasherConfig) { c.Algorithm = AlgorithmArgon2ID; c.Threads = 300 },
	}

	for name, mutate := range testCases {
		t.Run(name, func(t *testing.T) {
			cfg := testHasherConfig(AlgorithmPBKDF2)
			mutate(&cfg)

			hasher, err := NewPasswordHasher(cfg)
			assert.Nil(t, hasher)
			assert.True(t, errors.Is(err, ErrInvalidHasherConfig))
		})
	}
}

func TestProvidePasswordHasher(t *testing.T) {
	_, err := ProvidePasswordHasher(&config.Config{})
	assert.True(t, errors.Is(err, ErrInvalidHasherConfig))

	cfg := testHasherConfig(AlgorithmPBKDF2)
	hasher, err := ProvidePasswordHasher(&config.Config{Hasher: &cfg})
	require.NoError(t, err)
	assert.NotNil(t, hasher)
}
