package impl

import (
	"context"
	"testing"

	"flagpole/config"
	domainerrors "flagpole/internal/domain/errors"
	"flagpole/internal/domain/service"
	"flagpole/internal/infra/auth"
	"flagpole/internal/infra/storage"
	mockService "flagpole/internal/mocks/service"
	"flagpole/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func newTestHasher(t *testing.T, salt string) service.PasswordHasher {
	t.Helper()

	hasher, err := auth.NewPasswordHasher(config.HasherConfig{
		Algorithm:  auth.AlgorithmPBKDF2,
		Salt:       salt,
		Iterations: 2,
		KeyLength:  32,
	})
	require.NoError(t, err)

	return hasher
}

func createTestCredentialService(t *testing.T) (usecase.CredentialUsecase, service.FileWorker) {
	t.Helper()

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { bucket.Close() })
	worker := storage.NewBlobFileWorker(bucket, storage.RetryOptions{DefaultTries: 1}, newDiscardLogger())

	return NewCredentialService(newTestHasher(t, "default"), worker, newDiscardLogger()), worker
}

func TestCredentialService_StoreAndVerify(t *testing.T) {
	svc, worker := createTestCredentialService(t)
	ctx := context.Background()

	dir, err := worker.MkDir(ctx, "FileWorker")
	require.NoError(t, err)

	hash, err := svc.StoreHash(ctx, "password", "password", dir+"/test.txt")
	require.NoError(t, err)

	stored, err := worker.ReadAll(ctx, dir+"/test.txt")
	require.NoError(t, err)
	assert.Equal(t, hash, stored)

	ok, err := svc.VerifyStored(ctx, "password", "password", dir+"/test.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.VerifyStored(ctx, "password", "other", dir+"/test.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCredentialService_HashFromFiles(t *testing.T) {
	svc, worker := createTestCredentialService(t)
	ctx := context.Background()

	require.NoError(t, worker.Write(ctx, "password", "FileWorker/password.txt"))
	require.NoError(t, worker.Write(ctx, "salt", "FileWorker/salt.txt"))

	direct, err := svc.HashSecret(ctx, "password", "salt")
	require.NoError(t, err)

	secret, err := worker.ReadAll(ctx, "FileWorker/password.txt")
	require.NoError(t, err)
	salt, err := worker.ReadAll(ctx, "FileWorker/salt.txt")
	require.NoError(t, err)
	fromFiles, err := svc.HashSecret(ctx, secret, salt)
	require.NoError(t, err)

	assert.Equal(t, direct, fromFiles)
}

func TestCredentialService_DifferentSaltsStoredApart(t *testing.T) {
	svc, worker := createTestCredentialService(t)
	ctx := context.Background()

	_, err := svc.StoreHash(ctx, "password", "salt1", "FileWorker/test1.txt")
	require.NoError(t, err)
	_, err = svc.StoreHash(ctx, "password", "salt2", "FileWorker/test2.txt")
	require.NoError(t, err)

	first, err := worker.ReadAll(ctx, "FileWorker/test1.txt")
	require.NoError(t, err)
	second, err := worker.ReadAll(ctx, "FileWorker/test2.txt")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCredentialService_EmptyFileName(t *testing.T) {
	svc, _ := createTestCredentialService(t)
	ctx := context.Background()

	_, err := svc.StoreHash(ctx, "password", "password", "FileWorker/")
	assert.True(t, errors.Is(err, domainerrors.ErrFileKeyInvalid))

	_, err = svc.VerifyStored(ctx, "password", "password", "FileWorker/")
	assert.True(t, errors.Is(err, domainerrors.ErrFileKeyInvalid))
}

func TestCredentialService_VerifyMissingFile(t *testing.T) {
	svc, _ := createTestCredentialService(t)

	ok, err := svc.VerifyStored(context.Background(), "password", "salt", "FileWorker/none.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCredentialService_WriteFailure(t *testing.T) {
	worker := mockService.NewMockFileWorker(t)
	svc := NewCredentialService(newTestHasher(t, "default"), worker, newDiscardLogger())
	ctx := context.Background()
	writeErr := errors.New("disk full")

	hash, err := svc.HashSecret(ctx, "password", "")
	require.NoError(t, err)

	worker.On("TryWrite", ctx, hash, "out.txt", 0).Return(writeErr).Once()

	_, err = svc.StoreHash(ctx, "password", "", "out.txt")
	assert.True(t, errors.Is(err, writeErr))
}

func TestCredentialService_ReadFailure(t *testing.T) {
	worker := mockService.NewMockFileWorker(t)
	svc := NewCredentialService(newTestHasher(t, "default"), worker, newDiscardLogger())
	ctx := context.Background()
	readErr := errors.New("permission denied")

	worker.On("ReadAll", ctx, "in.txt").Return("", readErr).Once()

	ok, err := svc.VerifyStored(ctx, "password", "", "in.txt")
	assert.False(t, ok)
	assert.True(t, errors.Is(err, readErr))
}

func TestCredentialService_HashSecretCancelled(t *testing.T) {
	svc, _ := createTestCredentialService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.HashSecret(ctx, "password", "salt")
	assert.True(t, errors.Is(err, context.Canceled))
}
