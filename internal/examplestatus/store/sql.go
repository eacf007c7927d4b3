package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"baseapi/internal/examplestatus/models"
	"baseapi/internal/platform/sqlstore"
	"baseapi/pkg/platform/sentinel"
)

const statusColumns = `id, name, status, description, created_at, active`

// SQLStore reads the catalog from Postgres or SQLite in seq order.
type SQLStore struct {
	db *sqlstore.DB
}

func NewSQL(db *sqlstore.DB) *SQLStore {
	return &SQLStore{db: db}
}

// InTx runs fn in a transaction that the store's own calls join.
func (s *SQLStore) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.db.InTx(ctx, fn)
}

// Save upserts by ID.
func (s *SQLStore) Save(ctx context.Context, st *models.ExampleStatus) (*models.ExampleStatus, error) {
	query := s.db.Rebind(`INSERT INTO example_statuses (id, name, status, description, created_at, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			description = excluded.description,
			created_at = excluded.created_at,
			active = excluded.active`)
	if _, err := s.db.From(ctx).ExecContext(ctx, query,
		st.ID, st.Name, st.Status, st.Description, st.CreatedAt.UTC(), st.Active,
	); err != nil {
		return nil, fmt.Errorf("save example status: %w", err)
	}
	return st.Clone(), nil
}

func (s *SQLStore) FindByID(ctx context.Context, id string) (*models.ExampleStatus, error) {
	row := s.db.From(ctx).QueryRowContext(ctx,
		s.db.Rebind(`SELECT `+statusColumns+` FROM example_statuses WHERE id = $1`), id)
	st, err := scanStatus(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find example status: %w", err)
	}
	return st, nil
}

func (s *SQLStore) FindAll(ctx context.Context) ([]*models.ExampleStatus, error) {
	return s.list(ctx, `SELECT `+statusColumns+` FROM example_statuses ORDER BY seq`)
}

func (s *SQLStore) FindAllActive(ctx context.Context) ([]*models.ExampleStatus, error) {
	return s.list(ctx, `SELECT `+statusColumns+` FROM example_statuses WHERE active = TRUE ORDER BY seq`)
}

func (s *SQLStore) list(ctx context.Context, query string) ([]*models.ExampleStatus, error) {
	rows, err := s.db.From(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list example statuses: %w", err)
	}
	defer rows.Close()

	out := []*models.ExampleStatus{}
	for rows.Next() {
		st, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("scan example status: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list example statuses: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStatus(sc scanner) (*models.ExampleStatus, error) {
	var st models.ExampleStatus
	if err := sc.Scan(&st.ID, &st.Name, &st.Status, &st.Description, &st.CreatedAt, &st.Active); err != nil {
		return nil, err
	}
	return &st, nil
}
