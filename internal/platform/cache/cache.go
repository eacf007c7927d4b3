package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"baseapi/pkg/platform/sentinel"
)

// Cache is a typed, JSON-encoded view over a Backend. Every operation is
// best effort: backend failures are logged and counted but never returned,
// so a broken cache behaves like an empty one.
type Cache[T any] struct {
	backend Backend
	name    string
	prefix  string
	ttl     time.Duration
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	metrics *Metrics
}

// WithLogger sets the logger used for swallowed backend errors.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics enables hit/miss/error counters.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// New wraps backend under a key prefix. A nil backend yields a cache that
// always misses.
func New[T any](backend Backend, name, prefix string, ttl time.Duration, opts ...Option) *Cache[T] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Cache[T]{
		backend: backend,
		name:    name,
		prefix:  prefix,
		ttl:     ttl,
		logger:  o.logger,
		metrics: o.metrics,
	}
}

// Enabled reports whether a backend is attached.
func (c *Cache[T]) Enabled() bool {
	return c != nil && c.backend != nil
}

// Key returns the fully prefixed backend key for id.
func (c *Cache[T]) Key(id string) string {
	return c.prefix + id
}

// TTL is the expiry applied to every Put.
func (c *Cache[T]) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached value for id. The bool is false on a miss, on a
// backend failure and on an undecodable entry.
func (c *Cache[T]) Get(ctx context.Context, id string) (value T, ok bool) {
	if !c.Enabled() {
		return value, false
	}
	defer c.recoverPanic(ctx, "get", id, func() { ok = false })

	raw, err := c.backend.Get(ctx, c.Key(id))
	if errors.Is(err, sentinel.ErrNotFound) {
		c.metrics.observe(c.name, resultMiss)
		return value, false
	}
	if err != nil {
		c.fail(ctx, "get", id, err)
		return value, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		c.fail(ctx, "decode", id, err)
		var zero T
		return zero, false
	}
	c.metrics.observe(c.name, resultHit)
	return value, true
}

// Put stores value under id with the configured TTL.
func (c *Cache[T]) Put(ctx context.Context, id string, value T) {
	if !c.Enabled() {
		return
	}
	defer c.recoverPanic(ctx, "put", id, nil)

	raw, err := json.Marshal(value)
	if err != nil {
		c.fail(ctx, "encode", id, err)
		return
	}
	if err := c.backend.Set(ctx, c.Key(id), raw, c.ttl); err != nil {
		c.fail(ctx, "put", id, err)
		return
	}
	c.metrics.observe(c.name, resultPut)
}

// Evict drops a single entry.
func (c *Cache[T]) Evict(ctx context.Context, id string) {
	if !c.Enabled() {
		return
	}
	defer c.recoverPanic(ctx, "evict", id, nil)

	if err := c.backend.Delete(ctx, c.Key(id)); err != nil {
		c.fail(ctx, "evict", id, err)
	}
}

// Exists reports whether id is cached. Failures report false.
func (c *Cache[T]) Exists(ctx context.Context, id string) (found bool) {
	if !c.Enabled() {
		return false
	}
	defer c.recoverPanic(ctx, "exists", id, func() { found = false })

	found, err := c.backend.Exists(ctx, c.Key(id))
	if err != nil {
		c.fail(ctx, "exists", id, err)
		return false
	}
	return found
}

// Clear drops every entry under this cache's prefix.
func (c *Cache[T]) Clear(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	defer c.recoverPanic(ctx, "clear", "", nil)

	if err := c.backend.DeletePrefix(ctx, c.prefix); err != nil {
		c.fail(ctx, "clear", "", err)
	}
}

// Ping checks the backend. A disabled cache is always healthy.
func (c *Cache[T]) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.backend.Ping(ctx)
}

// BackendName reports the backend in use, or "none".
func (c *Cache[T]) BackendName() string {
	if !c.Enabled() {
		return "none"
	}
	return c.backend.Name()
}

func (c *Cache[T]) fail(ctx context.Context, op, id string, err error) {
	c.metrics.observe(c.name, resultError)
	c.logger.WarnContext(ctx, "cache operation failed",
		"cache", c.name,
		"backend", c.backend.Name(),
		"op", op,
		"key", c.Key(id),
		"error", err,
	)
}

func (c *Cache[T]) recoverPanic(ctx context.Context, op, id string, onPanic func()) {
	if rec := recover(); rec != nil {
		c.fail(ctx, op, id, fmt.Errorf("panic: %v", rec))
		if onPanic != nil {
			onPanic()
		}
	}
}
