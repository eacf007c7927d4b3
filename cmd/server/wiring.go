package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"baseapi/internal/audit"
	"baseapi/internal/example"
	examplemetrics "baseapi/internal/example/metrics"
	exampleservice "baseapi/internal/example/service"
	examplestore "baseapi/internal/example/store"
	"baseapi/internal/example/taxid"
	"baseapi/internal/examplestatus"
	statusmetrics "baseapi/internal/examplestatus/metrics"
	statusmodels "baseapi/internal/examplestatus/models"
	statusservice "baseapi/internal/examplestatus/service"
	statusstore "baseapi/internal/examplestatus/store"
	"baseapi/internal/health"
	"baseapi/internal/platform/cache"
	"baseapi/internal/platform/config"
	"baseapi/internal/platform/metrics"
	platformredis "baseapi/internal/platform/redis"
	"baseapi/internal/platform/sqlstore"
	httptransport "baseapi/internal/transport/http"
	"baseapi/pkg/platform/circuit"
	"baseapi/pkg/requestcontext"
)

const auditQueueSize = 1024

// app holds the assembled router plus what must run or close alongside it.
type app struct {
	router  http.Handler
	workers []func(ctx context.Context) error
	closers []func() error
	log     *slog.Logger
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", "error", err)
		}
	}
}

// stores bundles the durable stores for both modules.
type stores struct {
	examples interface {
		exampleservice.Store
		Health(ctx context.Context) error
	}
	statuses interface {
		statusservice.Store
		statusstore.Seeder
	}
}

func buildApp(ctx context.Context, cfg config.Config, log *slog.Logger) (_ *app, err error) {
	a := &app{log: log}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	st, err := openStores(ctx, cfg.Store, a)
	if err != nil {
		return nil, err
	}
	seeded, err := statusstore.SeedCatalog(ctx, st.statuses, statusstore.DefaultCatalog(requestcontext.Now(ctx)))
	if err != nil {
		return nil, fmt.Errorf("seed status catalog: %w", err)
	}
	log.Info("status catalog ready", "seeded", seeded)

	backend, err := openCacheBackend(ctx, cfg, a)
	if err != nil {
		return nil, err
	}
	statusCache := cache.New[statusmodels.ExampleStatus](backend, "example-status", "example-status:", cfg.Cache.TTL,
		cache.WithLogger(log),
		cache.WithMetrics(cache.NewMetrics(reg)),
	)

	publisher, err := openAudit(cfg.Audit, log, a)
	if err != nil {
		return nil, err
	}

	exampleMetrics := examplemetrics.New(reg)
	calculator, err := buildTaxID(cfg.TaxID, log, exampleMetrics)
	if err != nil {
		return nil, err
	}
	exampleSvc, err := example.NewService(st.examples, calculator,
		exampleservice.WithLogger(log),
		exampleservice.WithMetrics(exampleMetrics),
		exampleservice.WithAuditPublisher(publisher),
	)
	if err != nil {
		return nil, err
	}
	statusSvc, err := examplestatus.NewService(st.statuses, statusCache,
		statusservice.WithLogger(log),
		statusservice.WithMetrics(statusmetrics.New(reg)),
	)
	if err != nil {
		return nil, err
	}

	healthSvc := health.New(cfg.Server.AppName, cfg.Server.Version,
		health.WithLogger(log),
		health.WithCritical("store", st.examples.Health),
		health.WithInformational("cache", statusCache.Ping),
	)

	a.router = httptransport.NewRouter(httptransport.Config{
		Logger:         log,
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		RequestTimeout: cfg.Server.RequestTimeout,
	},
		example.NewHandler(exampleSvc, log),
		examplestatus.NewHandler(statusSvc, log),
		health.NewHandler(healthSvc),
	)
	return a, nil
}

func openStores(ctx context.Context, cfg config.StoreConfig, a *app) (stores, error) {
	if cfg.Driver == config.StoreMemory {
		return stores{examples: examplestore.NewInMemory(), statuses: statusstore.NewInMemory()}, nil
	}
	db, err := openSQL(ctx, cfg)
	if err != nil {
		return stores{}, err
	}
	a.closers = append(a.closers, db.Close)
	if err := db.Migrate(ctx); err != nil {
		return stores{}, err
	}
	return stores{examples: examplestore.NewSQL(db), statuses: statusstore.NewSQL(db)}, nil
}

func openSQL(ctx context.Context, cfg config.StoreConfig) (*sqlstore.DB, error) {
	opts := sqlstore.Options{MaxOpenConns: cfg.MaxOpenConns, MaxIdleConns: cfg.MaxIdleConns}
	switch cfg.Driver {
	case config.StorePostgres:
		return sqlstore.OpenPostgres(ctx, cfg.DatabaseURL, opts)
	case config.StoreSQLite:
		return sqlstore.OpenSQLite(ctx, cfg.SQLitePath, opts)
	default:
		return nil, fmt.Errorf("store driver %q is not a SQL store", cfg.Driver)
	}
}

// openCacheBackend returns nil for the none driver; the typed cache then
// always misses.
func openCacheBackend(ctx context.Context, cfg config.Config, a *app) (cache.Backend, error) {
	switch cfg.Cache.Driver {
	case config.CacheMemory:
		return cache.NewMemory(), nil
	case config.CacheRedis:
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return cache.NewRedis(client.Client), nil
	case config.CacheBolt:
		b, err := cache.OpenBolt(cfg.Cache.BoltPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, b.Close)
		return b, nil
	case config.CacheNone:
		return nil, nil
	default:
		return nil, errors.New("unknown cache driver " + cfg.Cache.Driver)
	}
}

// openAudit logs events by default. With brokers configured, events go to
// Kafka through a buffered queue drained by a worker.
func openAudit(cfg config.AuditConfig, log *slog.Logger, a *app) (*audit.Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return audit.NewPublisher(audit.NewLogSink(log)), nil
	}
	sink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		return nil, err
	}
	queue := audit.NewQueue(sink, auditQueueSize, log)
	a.workers = append(a.workers, queue.Run)
	a.closers = append(a.closers, queue.Close)
	return audit.NewPublisher(queue), nil
}

func buildTaxID(cfg config.TaxIDConfig, log *slog.Logger, m *examplemetrics.Metrics) (*taxid.FallbackCalculator, error) {
	opts := []taxid.FallbackOption{taxid.WithLogger(log), taxid.WithMetrics(m)}
	if cfg.URL == "" {
		return taxid.NewFallback(nil, opts...), nil
	}
	remote, err := taxid.NewHTTP(cfg.URL, taxid.WithTimeout(cfg.Timeout))
	if err != nil {
		return nil, err
	}
	breaker := circuit.New("taxid",
		circuit.WithFailureThreshold(cfg.FailureThreshold),
		circuit.WithCooldown(cfg.Cooldown),
	)
	opts = append(opts, taxid.WithBreaker(breaker))
	return taxid.NewFallback(remote, opts...), nil
}
