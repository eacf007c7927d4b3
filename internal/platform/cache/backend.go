package cache

import (
	"context"
	"time"
)

// Backend is a raw byte-oriented key/value store with per-entry expiry.
// Get returns sentinel.ErrNotFound when the key is absent or expired.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	DeletePrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
	Name() string
}
