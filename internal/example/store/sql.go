package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"baseapi/internal/example/models"
	"baseapi/internal/platform/sqlstore"
	"baseapi/pkg/platform/sentinel"
)

const exampleColumns = `id, first_name, last_name, national_id, gender, tax_id, created_at, updated_at`

// SQLStore persists examples in Postgres or SQLite. Uniqueness of national_id
// is enforced by the table constraint.
type SQLStore struct {
	db *sqlstore.DB
}

func NewSQL(db *sqlstore.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Save(ctx context.Context, e *models.Example) (*models.Example, error) {
	query := s.db.Rebind(`INSERT INTO examples (first_name, last_name, national_id, gender, tax_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`)

	stored := e.Clone()
	err := s.db.From(ctx).QueryRowContext(ctx, query,
		e.FirstName, e.LastName, e.NationalID, string(e.Gender), e.TaxID,
		e.CreatedAt.UTC(), e.UpdatedAt.UTC(),
	).Scan(&stored.ID)
	if err != nil {
		if sqlstore.IsUniqueViolation(err) {
			return nil, sentinel.ErrAlreadyUsed
		}
		return nil, fmt.Errorf("insert example: %w", err)
	}
	return stored, nil
}

func (s *SQLStore) FindByID(ctx context.Context, id int64) (*models.Example, error) {
	row := s.db.From(ctx).QueryRowContext(ctx,
		s.db.Rebind(`SELECT `+exampleColumns+` FROM examples WHERE id = $1`), id)
	return scanOne(row)
}

func (s *SQLStore) FindByNationalID(ctx context.Context, nationalID string) (*models.Example, error) {
	row := s.db.From(ctx).QueryRowContext(ctx,
		s.db.Rebind(`SELECT `+exampleColumns+` FROM examples WHERE national_id = $1`), nationalID)
	return scanOne(row)
}

func (s *SQLStore) FindAll(ctx context.Context) ([]*models.Example, error) {
	rows, err := s.db.From(ctx).QueryContext(ctx, `SELECT `+exampleColumns+` FROM examples ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list examples: %w", err)
	}
	defer rows.Close()

	var out []*models.Example
	for rows.Next() {
		e, err := scanExample(rows)
		if err != nil {
			return nil, fmt.Errorf("scan example: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list examples: %w", err)
	}
	return out, nil
}

func (s *SQLStore) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	var exists bool
	err := s.db.From(ctx).QueryRowContext(ctx,
		s.db.Rebind(`SELECT EXISTS (SELECT 1 FROM examples WHERE national_id = $1)`), nationalID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check national id: %w", err)
	}
	return exists, nil
}

func (s *SQLStore) Health(ctx context.Context) error {
	return s.db.Health(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOne(row *sql.Row) (*models.Example, error) {
	e, err := scanExample(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find example: %w", err)
	}
	return e, nil
}

func scanExample(sc scanner) (*models.Example, error) {
	var e models.Example
	var gender string
	if err := sc.Scan(&e.ID, &e.FirstName, &e.LastName, &e.NationalID, &gender, &e.TaxID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Gender = models.Gender(gender)
	return &e, nil
}
