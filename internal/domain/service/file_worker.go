package service

import "context"

// FileWorker stores text content under slash-separated keys.
// A key whose last segment is empty never names a file.
type FileWorker interface {
	// MkDir prepares a directory prefix and returns its key.
	MkDir(ctx context.Context, name string) (string, error)

	// Write replaces the content stored at key.
	Write(ctx context.Context, content, key string) error

	// TryWrite is Write retried up to tries times with backoff.
	TryWrite(ctx context.Context, content, key string, tries int) error

	// ReadAll returns the whole content stored at key.
	ReadAll(ctx context.Context, key string) (string, error)

	// ReadLines returns the content stored at key split into lines.
	ReadLines(ctx context.Context, key string) ([]string, error)

	// TryCopy copies from into to, retried up to tries times. Without rewrite an
	// existing destination is left untouched and an error is returned.
	TryCopy(ctx context.Context, from, to string, rewrite bool, tries int) error
}
