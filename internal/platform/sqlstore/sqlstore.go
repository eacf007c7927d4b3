// Package sqlstore opens the durable SQL store and owns its schema.
//
// Two dialects share one set of queries written with $N placeholders:
// Postgres through lib/pq and SQLite through the pure Go modernc driver.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"baseapi/pkg/platform/tx"
)

// Dialect identifies the SQL flavour behind a DB.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// DB is a *sql.DB tagged with its dialect.
type DB struct {
	*sql.DB
	dialect Dialect
}

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// OpenPostgres connects to Postgres and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string, opts Options) (*DB, error) {
	if dsn == "" {
		return nil, errors.New("database URL is required for the postgres store")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return finishOpen(ctx, db, Postgres, opts)
}

// OpenSQLite opens (or creates) a SQLite file in WAL mode. ":memory:" gives a
// private in-process database limited to one connection.
func OpenSQLite(ctx context.Context, path string, opts Options) (*DB, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required for the sqlite store")
	}
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	if path == ":memory:" {
		dsn = path
		opts.MaxOpenConns = 1
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return finishOpen(ctx, db, SQLite, opts)
}

// Wrap tags an existing handle, for tests that own the connection.
func Wrap(db *sql.DB, dialect Dialect) *DB {
	return &DB{DB: db, dialect: dialect}
}

func finishOpen(ctx context.Context, db *sql.DB, dialect Dialect, opts Options) (*DB, error) {
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return &DB{DB: db, dialect: dialect}, nil
}

// Dialect reports the SQL flavour.
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// From returns the transaction carried by ctx, or the pool.
func (d *DB) From(ctx context.Context) tx.Querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return d.DB
}

// InTx runs fn in a transaction. Store calls made with the ctx passed to fn
// join it.
func (d *DB) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return tx.Run(ctx, d.DB, fn)
}

// Health pings the database.
func (d *DB) Health(ctx context.Context) error {
	return d.PingContext(ctx)
}

var placeholder = regexp.MustCompile(`\$\d+`)

// Rebind rewrites $N placeholders for dialects that only accept ?.
// Queries must reference each placeholder once, in order.
func (d *DB) Rebind(query string) string {
	if d.dialect != SQLite {
		return query
	}
	return placeholder.ReplaceAllString(query, "?")
}

// IsUniqueViolation reports whether err came from a unique constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
