package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	platformstrings "baseapi/pkg/platform/strings"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Cache drivers. CacheNone disables caching; lookups always hit the store.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheBolt   = "bolt"
	CacheNone   = "none"
)

// Config is the full runtime configuration.
type Config struct {
	Server Server
	Store  StoreConfig
	Cache  CacheConfig
	Redis  RedisConfig
	TaxID  TaxIDConfig
	Audit  AuditConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	LogLevel        string
	AppName         string
	Version         string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

// StoreConfig selects the durable store.
type StoreConfig struct {
	Driver       string
	DatabaseURL  string
	SQLitePath   string
	MaxOpenConns int
	MaxIdleConns int
}

// CacheConfig selects the cache backend for the status catalog.
type CacheConfig struct {
	Driver   string
	TTL      time.Duration
	BoltPath string
}

// RedisConfig mirrors go-redis pool options.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// TaxIDConfig configures the remote tax-ID calculation service.
// An empty URL disables the remote call; the local formula is used directly.
type TaxIDConfig struct {
	URL              string
	Timeout          time.Duration
	FailureThreshold int
	Cooldown         time.Duration
}

// AuditConfig selects where audit events go. Without brokers events are logged.
type AuditConfig struct {
	KafkaBrokers []string
	KafkaTopic   string
}

// IsProduction reports whether the service runs in production mode.
func (c Server) IsProduction() bool {
	return c.Environment == "production"
}

// Default returns the development defaults.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			Environment:     "development",
			LogLevel:        "info",
			AppName:         "baseapi",
			Version:         "0.1.0",
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  30 * time.Second,
		},
		Store: StoreConfig{
			Driver:       StoreMemory,
			SQLitePath:   "baseapi.db",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		Cache: CacheConfig{
			Driver:   CacheMemory,
			TTL:      10 * time.Minute,
			BoltPath: "baseapi-cache.db",
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		},
		TaxID: TaxIDConfig{
			Timeout:          2 * time.Second,
			FailureThreshold: 5,
			Cooldown:         30 * time.Second,
		},
		Audit: AuditConfig{
			KafkaTopic: "baseapi.audit",
		},
	}
}

// Load builds the configuration: defaults, then the optional TOML file named by
// BASEAPI_CONFIG, then environment variables.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("BASEAPI_CONFIG"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks driver selections and their required settings.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.Cache.Driver {
	case CacheMemory, CacheBolt, CacheNone:
	case CacheRedis:
		if c.Redis.URL == "" {
			return errors.New("REDIS_URL is required for the redis cache")
		}
	default:
		return fmt.Errorf("unknown cache driver %q", c.Cache.Driver)
	}
	if c.Cache.TTL <= 0 {
		return errors.New("cache ttl must be positive")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var errs []error
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	num := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	str("BASEAPI_ADDR", &cfg.Server.Addr)
	str("BASEAPI_ENV", &cfg.Server.Environment)
	str("LOG_LEVEL", &cfg.Server.LogLevel)
	str("APP_NAME", &cfg.Server.AppName)
	str("APP_VERSION", &cfg.Server.Version)
	dur("SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	dur("REQUEST_TIMEOUT", &cfg.Server.RequestTimeout)

	str("STORE_DRIVER", &cfg.Store.Driver)
	str("DATABASE_URL", &cfg.Store.DatabaseURL)
	str("SQLITE_PATH", &cfg.Store.SQLitePath)
	num("DB_MAX_OPEN_CONNS", &cfg.Store.MaxOpenConns)
	num("DB_MAX_IDLE_CONNS", &cfg.Store.MaxIdleConns)

	str("CACHE_DRIVER", &cfg.Cache.Driver)
	dur("CACHE_TTL", &cfg.Cache.TTL)
	str("BOLT_PATH", &cfg.Cache.BoltPath)

	str("REDIS_URL", &cfg.Redis.URL)
	num("REDIS_POOL_SIZE", &cfg.Redis.PoolSize)
	num("REDIS_MIN_IDLE_CONNS", &cfg.Redis.MinIdleConns)
	dur("REDIS_DIAL_TIMEOUT", &cfg.Redis.DialTimeout)
	dur("REDIS_READ_TIMEOUT", &cfg.Redis.ReadTimeout)
	dur("REDIS_WRITE_TIMEOUT", &cfg.Redis.WriteTimeout)

	str("TAXID_SERVICE_URL", &cfg.TaxID.URL)
	dur("TAXID_TIMEOUT", &cfg.TaxID.Timeout)
	num("TAXID_FAILURE_THRESHOLD", &cfg.TaxID.FailureThreshold)
	dur("TAXID_COOLDOWN", &cfg.TaxID.Cooldown)

	if v := os.Getenv("AUDIT_KAFKA_BROKERS"); v != "" {
		cfg.Audit.KafkaBrokers = platformstrings.SplitList(v)
	}
	str("AUDIT_KAFKA_TOPIC", &cfg.Audit.KafkaTopic)

	return errors.Join(errs...)
}
