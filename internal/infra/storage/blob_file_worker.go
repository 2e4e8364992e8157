// Package storage implements the FileWorker service on top of gocloud.dev blob buckets.
package storage

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
	"gocloud.dev/gcerrors"

	"flagpole/config"
	domainerrors "flagpole/internal/domain/errors"
	"flagpole/internal/domain/lifecycle"
	"flagpole/internal/domain/service"
	"flagpole/internal/errors"
)

// RetryOptions bounds TryWrite and TryCopy.
type RetryOptions struct {
	DefaultTries    int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

type blobFileWorker struct {
	bucket *blob.Bucket
	retry  RetryOptions
	logger *slog.Logger
}

// NewBlobFileWorker wraps an open bucket. The caller keeps ownership of the bucket.
func NewBlobFileWorker(bucket *blob.Bucket, retry RetryOptions, logger *slog.Logger) service.FileWorker {
	if retry.DefaultTries <= 0 {
		retry.DefaultTries = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &blobFileWorker{
		bucket: bucket,
		retry:  retry,
		logger: logger,
	}
}

// Params defines the parameters required for the file worker
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// ProvideFileWorker opens the configured bucket and closes it when the app stops.
func ProvideFileWorker(params Params) (service.FileWorker, error) {
	files := params.Config.Files
	if files == nil {
		return nil, errors.New("files config is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	bucket, err := blob.OpenBucket(ctx, files.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", files.BucketURL)
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return NewBlobFileWorker(bucket, RetryOptions{
		DefaultTries:    files.WriteTries,
		InitialInterval: files.RetryInitialInterval,
		MaxInterval:     files.RetryMaxInterval,
	}, params.Logger), nil
}

// MkDir validates name as a directory prefix. Blob buckets have no real
// directories; the returned prefix is joined with file names by callers.
func (w *blobFileWorker) MkDir(_ context.Context, name string) (string, error) {
	dir := path.Clean(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	dir = strings.TrimPrefix(dir, "/")
	if dir == "." || dir == "" || dir == ".." || strings.HasPrefix(dir, "../") {
		return "", domainerrors.ErrFileKeyInvalid.WrapMessage("invalid directory " + name)
	}

	return dir, nil
}

func (w *blobFileWorker) Write(ctx context.Context, content, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := w.bucket.WriteAll(ctx, key, []byte(content), &blob.WriterOptions{ContentType: "text/plain; charset=utf-8"}); err != nil {
		return errors.Wrapf(err, "failed to write %s", key)
	}

	return nil
}

func (w *blobFileWorker) TryWrite(ctx context.Context, content, key string, tries int) error {
	if err := validateKey(key); err != nil {
		return err
	}

	return w.withRetry(ctx, "write", key, tries, func() error {
		return w.Write(ctx, content, key)
	})
}

func (w *blobFileWorker) ReadAll(ctx context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	data, err := w.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return "", domainerrors.ErrFileNotFound.WrapMessage(key)
		}

		return "", errors.Wrapf(err, "failed to read %s", key)
	}

	return string(data), nil
}

func (w *blobFileWorker) ReadLines(ctx context.Context, key string) ([]string, error) {
	content, err := w.ReadAll(ctx, key)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return []string{}, nil
	}

	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines, nil
}

func (w *blobFileWorker) TryCopy(ctx context.Context, from, to string, rewrite bool, tries int) error {
	if err := validateKey(from); err != nil {
		return err
	}
	if err := validateKey(to); err != nil {
		return err
	}

	return w.withRetry(ctx, "copy", to, tries, func() error {
		if !rewrite {
			exists, err := w.bucket.Exists(ctx, to)
			if err != nil {
				return errors.Wrapf(err, "failed to stat %s", to)
			}
			if exists {
				return backoff.Permanent(domainerrors.ErrFileAlreadyExists.WrapMessage(to))
			}
		}

		if err := w.bucket.Copy(ctx, to, from, nil); err != nil {
			if gcerrors.Code(err) == gcerrors.NotFound {
				return backoff.Permanent(domainerrors.ErrFileNotFound.WrapMessage(from))
			}

			return errors.Wrapf(err, "failed to copy %s to %s", from, to)
		}

		return nil
	})
}

func (w *blobFileWorker) withRetry(ctx context.Context, op, key string, tries int, fn func() error) error {
	if tries <= 0 {
		tries = w.retry.DefaultTries
	}

	bo := backoff.NewExponentialBackOff()
	if w.retry.InitialInterval > 0 {
		bo.InitialInterval = w.retry.InitialInterval
	}
	if w.retry.MaxInterval > 0 {
		bo.MaxInterval = w.retry.MaxInterval
	}
	bo.MaxElapsedTime = 0 // bounded by tries

	attempt := 0
	operation := func() error {
		attempt++
		err := fn()
		if err != nil && attempt < tries {
			w.logger.WarnContext(ctx, "File operation failed, retrying",
				slog.String("op", op),
				slog.String("key", key),
				slog.Int("attempt", attempt),
				slog.Any("error", err),
			)
		}

		return err
	}

	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(tries-1)), ctx))
}

// validateKey rejects keys whose file name segment is empty.
func validateKey(key string) error {
	if key == "" || strings.HasSuffix(key, "/") || strings.HasSuffix(key, "\\") {
		return errors.Wrapf(domainerrors.ErrFileKeyInvalid, "key %q", key)
	}

	return nil
}
