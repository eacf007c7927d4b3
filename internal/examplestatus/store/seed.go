package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"baseapi/internal/examplestatus/models"
	"baseapi/pkg/platform/sentinel"
)

// Seeder is the write side the catalog seed needs.
type Seeder interface {
	FindByID(ctx context.Context, id string) (*models.ExampleStatus, error)
	Save(ctx context.Context, st *models.ExampleStatus) (*models.ExampleStatus, error)
}

// Transactor is implemented by stores that can run the whole seed atomically.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// DefaultCatalog returns the fixed startup catalog, dated relative to now.
func DefaultCatalog(now time.Time) []*models.ExampleStatus {
	day := 24 * time.Hour
	return []*models.ExampleStatus{
		{ID: "1", Name: "Service A", Status: "RUNNING", Description: "Primary service running normally", CreatedAt: now.Add(-10 * day), Active: true},
		{ID: "2", Name: "Service B", Status: "IDLE", Description: "Secondary service in idle state", CreatedAt: now.Add(-5 * day), Active: true},
		{ID: "3", Name: "Service C", Status: "STOPPED", Description: "Maintenance service currently stopped", CreatedAt: now.Add(-2 * day), Active: false},
	}
}

// SeedCatalog writes entries that are not already present and returns how
// many were inserted. Existing entries are left untouched so restarts against
// a durable store are idempotent. A Transactor store applies all or nothing.
func SeedCatalog(ctx context.Context, st Seeder, entries []*models.ExampleStatus) (int, error) {
	t, ok := st.(Transactor)
	if !ok {
		return seed(ctx, st, entries)
	}
	var inserted int
	err := t.InTx(ctx, func(ctx context.Context) error {
		var err error
		inserted, err = seed(ctx, st, entries)
		return err
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func seed(ctx context.Context, st Seeder, entries []*models.ExampleStatus) (int, error) {
	inserted := 0
	for _, entry := range entries {
		_, err := st.FindByID(ctx, entry.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return inserted, fmt.Errorf("check status %s: %w", entry.ID, err)
		}
		if _, err := st.Save(ctx, entry); err != nil {
			return inserted, fmt.Errorf("seed status %s: %w", entry.ID, err)
		}
		inserted++
	}
	return inserted, nil
}
