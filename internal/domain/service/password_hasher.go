// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for deterministic salted hashing.
// This abstracts the underlying key derivation (e.g., PBKDF2, Argon2id), keeping the domain pure.
type PasswordHasher interface {
	// GetHash derives a digest from secret and salt. The same pair always yields
	// the same digest; an empty salt falls back to the hasher's configured salt.
	GetHash(secret, salt string) string

	// Verify reports whether hash is the digest of secret and salt.
	Verify(secret, salt, hash string) bool
}
