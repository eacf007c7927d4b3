package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"baseapi/internal/examplestatus/metrics"
	"baseapi/internal/examplestatus/models"
	dErrors "baseapi/pkg/domain-errors"
	"baseapi/pkg/platform/sentinel"
)

const tracerName = "baseapi/internal/examplestatus/service"

// Store is the durable catalog.
type Store interface {
	FindByID(ctx context.Context, id string) (*models.ExampleStatus, error)
	FindAll(ctx context.Context) ([]*models.ExampleStatus, error)
	FindAllActive(ctx context.Context) ([]*models.ExampleStatus, error)
}

// Cache is the best-effort point lookup cache. Implementations must not
// surface backend failures: Get misses and Put/Evict become no-ops.
type Cache interface {
	Get(ctx context.Context, id string) (models.ExampleStatus, bool)
	Put(ctx context.Context, id string, value models.ExampleStatus)
	Evict(ctx context.Context, id string)
}

// Lookup serves catalog reads. Point lookups are cache-aside; listings always
// go to the store.
type Lookup struct {
	store   Store
	cache   Cache
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Lookup)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Lookup) {
		l.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Lookup) {
		l.metrics = m
	}
}

// New constructs a Lookup. A nil cache sends every lookup to the store.
func New(store Store, cache Cache, opts ...Option) (*Lookup, error) {
	if store == nil {
		return nil, errors.New("example status store is required")
	}
	l := &Lookup{
		store:  store,
		cache:  cache,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l, nil
}

// GetByID returns the status or ok=false. It never returns an error: a blank
// id, a missing record and a store failure all read as absent.
func (l *Lookup) GetByID(ctx context.Context, id string) (*models.ExampleStatus, bool) {
	if strings.TrimSpace(id) == "" {
		l.metrics.ObserveLookup(metrics.OutcomeBlankID)
		return nil, false
	}
	ctx, span := l.tracer.Start(ctx, "exampleStatus.GetByID",
		trace.WithAttributes(attribute.String("example_status.id", id)))
	defer span.End()

	if cached, ok := l.cacheGet(ctx, id); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		l.metrics.ObserveLookup(metrics.OutcomeCacheHit)
		return &cached, true
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	st, err := l.store.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		l.metrics.ObserveLookup(metrics.OutcomeNotFound)
		return nil, false
	}
	if err != nil {
		span.RecordError(err)
		l.metrics.ObserveLookup(metrics.OutcomeStoreError)
		l.logger.ErrorContext(ctx, "example status lookup failed", "id", id, "error", err)
		return nil, false
	}

	l.cachePut(ctx, id, *st)
	l.metrics.ObserveLookup(metrics.OutcomeStoreHit)
	return st, true
}

// ListAll returns every status in store order. The cache is not involved.
func (l *Lookup) ListAll(ctx context.Context) ([]*models.ExampleStatus, error) {
	ctx, span := l.tracer.Start(ctx, "exampleStatus.ListAll")
	defer span.End()

	list, err := l.store.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list example statuses")
	}
	return list, nil
}

// ListActive returns the active statuses in store order. The cache is not involved.
func (l *Lookup) ListActive(ctx context.Context) ([]*models.ExampleStatus, error) {
	ctx, span := l.tracer.Start(ctx, "exampleStatus.ListActive")
	defer span.End()

	list, err := l.store.FindAllActive(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list active example statuses")
	}
	return list, nil
}

// Invalidate drops a cached entry. Any future status write path must call it
// after the store write commits.
func (l *Lookup) Invalidate(ctx context.Context, id string) {
	if l.cache == nil || strings.TrimSpace(id) == "" {
		return
	}
	defer l.recoverCache(ctx, "evict", id)
	l.cache.Evict(ctx, id)
}

func (l *Lookup) cacheGet(ctx context.Context, id string) (st models.ExampleStatus, ok bool) {
	if l.cache == nil {
		return st, false
	}
	defer func() {
		if rec := recover(); rec != nil {
			l.logger.WarnContext(ctx, "cache get panicked", "id", id, "panic", rec)
			ok = false
		}
	}()
	return l.cache.Get(ctx, id)
}

func (l *Lookup) cachePut(ctx context.Context, id string, st models.ExampleStatus) {
	if l.cache == nil {
		return
	}
	defer l.recoverCache(ctx, "put", id)
	l.cache.Put(ctx, id, st)
}

func (l *Lookup) recoverCache(ctx context.Context, op, id string) {
	if rec := recover(); rec != nil {
		l.logger.WarnContext(ctx, "cache operation panicked", "op", op, "id", id, "panic", rec)
	}
}
