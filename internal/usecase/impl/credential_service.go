package impl

import (
	"context"
	"log/slog"

	domainerrors "flagpole/internal/domain/errors"
	"flagpole/internal/domain/service"
	"flagpole/internal/errors"
	"flagpole/internal/usecase"
)

type credentialService struct {
	hasher     service.PasswordHasher
	fileWorker service.FileWorker
	logger     *slog.Logger
}

// NewCredentialService creates a new credential service instance
func NewCredentialService(hasher service.PasswordHasher, fileWorker service.FileWorker, logger *slog.Logger) usecase.CredentialUsecase {
	return &credentialService{
		hasher:     hasher,
		fileWorker: fileWorker,
		logger:     logger,
	}
}

// HashSecret returns the digest of secret and salt. Key derivation is
// CPU-bound, so a request that is already cancelled is not hashed.
func (s *credentialService) HashSecret(ctx context.Context, secret, salt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.WithStack(err)
	}

	return s.hasher.GetHash(secret, salt), nil
}

// StoreHash hashes secret and writes the digest to key
func (s *credentialService) StoreHash(ctx context.Context, secret, salt, key string) (string, error) {
	hash, err := s.HashSecret(ctx, secret, salt)
	if err != nil {
		return "", err
	}

	if err := s.fileWorker.TryWrite(ctx, hash, key, 0); err != nil {
		return "", errors.Wrapf(err, "failed to store hash at %s", key)
	}

	s.logger.DebugContext(ctx, "Hash stored", slog.String("key", key))

	return hash, nil
}

// VerifyStored re-hashes secret and compares it with the digest stored at key
func (s *credentialService) VerifyStored(ctx context.Context, secret, salt, key string) (bool, error) {
	stored, err := s.fileWorker.ReadAll(ctx, key)
	if err != nil {
		if errors.Is(err, domainerrors.ErrFileNotFound) {
			return false, nil
		}

		return false, errors.Wrapf(err, "failed to read hash at %s", key)
	}

	return s.hasher.Verify(secret, salt, stored), nil
}
