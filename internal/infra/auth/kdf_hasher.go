// Package auth provides concrete implementations for hashing-related domain services.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"

	"flagpole/config"
	"flagpole/internal/domain/service"
	"flagpole/internal/errors"
)

// Supported key derivation algorithms.
const (
	AlgorithmPBKDF2   = "pbkdf2"
	AlgorithmArgon2ID = "argon2id"
)

const (
	defaultArgon2MemoryKiB = 64 * 1024
	defaultArgon2Threads   = 2
)

// ErrInvalidHasherConfig is returned when a HasherConfig cannot drive a key derivation.
var ErrInvalidHasherConfig = errors.New("invalid hasher config")

// kdfHasher is a deterministic PasswordHasher. All parameters are fixed at
// construction; build a new hasher to change salt or cost.
type kdfHasher struct {
	derive func(secret, salt []byte) []byte
	salt   string
}

// NewPasswordHasher builds a hasher from an explicit configuration.
func NewPasswordHasher(cfg config.HasherConfig) (service.PasswordHasher, error) {
	if cfg.Iterations <= 0 || int64(cfg.Iterations) > math.MaxUint32 {
		return nil, errors.Wrapf(ErrInvalidHasherConfig, "iterations %d", cfg.Iterations)
	}
	if cfg.KeyLength <= 0 || int64(cfg.KeyLength) > math.MaxUint32 {
		return nil, errors.Wrapf(ErrInvalidHasherConfig, "key length %d", cfg.KeyLength)
	}

	h := &kdfHasher{salt: cfg.Salt}

	switch strings.ToLower(cfg.Algorithm) {
	case AlgorithmPBKDF2, "":
		h.derive = func(secret, salt []byte) []byte {
			return pbkdf2.Key(secret, salt, cfg.Iterations, cfg.KeyLength, sha256.New)
		}
	case AlgorithmArgon2ID:
		memory := cfg.MemoryKiB
		if memory <= 0 {
			memory = defaultArgon2MemoryKiB
		}
		threads := cfg.Threads
		if threads <= 0 {
			threads = defaultArgon2Threads
		}
		if int64(memory) > math.MaxUint32 || threads > math.MaxUint8 {
			return nil, errors.Wrapf(ErrInvalidHasherConfig, "argon2 memory %d threads %d", memory, threads)
		}
		h.derive = func(secret, salt []byte) []byte {
			return argon2.IDKey(secret, salt, uint32(cfg.Iterations), uint32(memory), uint8(threads), uint32(cfg.KeyLength))
		}
	default:
		return nil, errors.Wrapf(ErrInvalidHasherConfig, "algorithm %q", cfg.Algorithm)
	}

	return h, nil
}

// ProvidePasswordHasher is the Fx constructor reading the hasher section of the config.
func ProvidePasswordHasher(cfg *config.Config) (service.PasswordHasher, error) {
	if cfg.Hasher == nil {
		return nil, errors.Wrap(ErrInvalidHasherConfig, "missing hasher section")
	}

	return NewPasswordHasher(*cfg.Hasher)
}

// GetHash returns the hex-encoded derived key of secret and salt.
func (h *kdfHasher) GetHash(secret, salt string) string {
	if salt == "" {
		salt = h.salt
	}

	return hex.EncodeToString(h.derive([]byte(secret), []byte(salt)))
}

// Verify compares in constant time.
func (h *kdfHasher) Verify(secret, salt, hash string) bool {
	expected := h.GetHash(secret, salt)

	return subtle.ConstantTimeCompare([]byte(expected), []byte(hash)) == 1
}
