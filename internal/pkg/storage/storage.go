// Package storage persists immutable documents such as settlement receipts.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("object not found")

// Store is an object store keyed by slash-separated paths.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Config selects and configures a Store.
type Config struct {
	Driver string // s3, local, none

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	LocalPath string
}

// New builds the Store named by cfg.Driver. The "none" driver returns nil.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Store(ctx, cfg)
	case "local":
		return NewLocalStore(cfg.LocalPath)
	case "", "none":
		return nil, nil
	default:
		return nil, errors.New("unknown storage driver: " + cfg.Driver)
	}
}
