package usecase

import "context"

// CredentialUsecase defines the interface for hashing secrets and keeping digests in files
type CredentialUsecase interface {
	// HashSecret returns the digest of secret and salt
	HashSecret(ctx context.Context, secret, salt string) (string, error)

	// StoreHash hashes secret and writes the digest to key, returning the digest
	StoreHash(ctx context.Context, secret, salt, key string) (string, error)

	// VerifyStored re-hashes secret and compares it with the digest stored at key
	VerifyStored(ctx context.Context, secret, salt, key string) (bool, error)
}
