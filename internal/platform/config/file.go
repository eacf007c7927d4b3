package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig is the TOML layout. Durations are strings ("10m", "500ms") and
// every field is optional; zero values leave the current setting untouched.
type fileConfig struct {
	Server struct {
		Addr            string `toml:"addr"`
		Environment     string `toml:"environment"`
		LogLevel        string `toml:"log_level"`
		AppName         string `toml:"app_name"`
		Version         string `toml:"version"`
		ShutdownTimeout string `toml:"shutdown_timeout"`
		RequestTimeout  string `toml:"request_timeout"`
	} `toml:"server"`
	Store struct {
		Driver       string `toml:"driver"`
		DatabaseURL  string `toml:"database_url"`
		SQLitePath   string `toml:"sqlite_path"`
		MaxOpenConns int    `toml:"max_open_conns"`
		MaxIdleConns int    `toml:"max_idle_conns"`
	} `toml:"store"`
	Cache struct {
		Driver   string `toml:"driver"`
		TTL      string `toml:"ttl"`
		BoltPath string `toml:"bolt_path"`
	} `toml:"cache"`
	Redis struct {
		URL          string `toml:"url"`
		PoolSize     int    `toml:"pool_size"`
		MinIdleConns int    `toml:"min_idle_conns"`
		DialTimeout  string `toml:"dial_timeout"`
		ReadTimeout  string `toml:"read_timeout"`
		WriteTimeout string `toml:"write_timeout"`
	} `toml:"redis"`
	TaxID struct {
		URL              string `toml:"url"`
		Timeout          string `toml:"timeout"`
		FailureThreshold int    `toml:"failure_threshold"`
		Cooldown         string `toml:"cooldown"`
	} `toml:"taxid"`
	Audit struct {
		KafkaBrokers []string `toml:"kafka_brokers"`
		KafkaTopic   string   `toml:"kafka_topic"`
	} `toml:"audit"`
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	return applyTOML(cfg, raw)
}

func applyTOML(cfg *Config, raw []byte) error {
	var fc fileConfig
	if err := toml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setStr(&cfg.Server.Addr, fc.Server.Addr)
	setStr(&cfg.Server.Environment, fc.Server.Environment)
	setStr(&cfg.Server.LogLevel, fc.Server.LogLevel)
	setStr(&cfg.Server.AppName, fc.Server.AppName)
	setStr(&cfg.Server.Version, fc.Server.Version)

	setStr(&cfg.Store.Driver, fc.Store.Driver)
	setStr(&cfg.Store.DatabaseURL, fc.Store.DatabaseURL)
	setStr(&cfg.Store.SQLitePath, fc.Store.SQLitePath)
	setInt(&cfg.Store.MaxOpenConns, fc.Store.MaxOpenConns)
	setInt(&cfg.Store.MaxIdleConns, fc.Store.MaxIdleConns)

	setStr(&cfg.Cache.Driver, fc.Cache.Driver)
	setStr(&cfg.Cache.BoltPath, fc.Cache.BoltPath)

	setStr(&cfg.Redis.URL, fc.Redis.URL)
	setInt(&cfg.Redis.PoolSize, fc.Redis.PoolSize)
	setInt(&cfg.Redis.MinIdleConns, fc.Redis.MinIdleConns)

	setStr(&cfg.TaxID.URL, fc.TaxID.URL)
	setInt(&cfg.TaxID.FailureThreshold, fc.TaxID.FailureThreshold)

	if len(fc.Audit.KafkaBrokers) > 0 {
		cfg.Audit.KafkaBrokers = fc.Audit.KafkaBrokers
	}
	setStr(&cfg.Audit.KafkaTopic, fc.Audit.KafkaTopic)

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"server.shutdown_timeout", fc.Server.ShutdownTimeout, &cfg.Server.ShutdownTimeout},
		{"server.request_timeout", fc.Server.RequestTimeout, &cfg.Server.RequestTimeout},
		{"cache.ttl", fc.Cache.TTL, &cfg.Cache.TTL},
		{"redis.dial_timeout", fc.Redis.DialTimeout, &cfg.Redis.DialTimeout},
		{"redis.read_timeout", fc.Redis.ReadTimeout, &cfg.Redis.ReadTimeout},
		{"redis.write_timeout", fc.Redis.WriteTimeout, &cfg.Redis.WriteTimeout},
		{"taxid.timeout", fc.TaxID.Timeout, &cfg.TaxID.Timeout},
		{"taxid.cooldown", fc.TaxID.Cooldown, &cfg.TaxID.Cooldown},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = parsed
	}
	return nil
}

func setStr(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
