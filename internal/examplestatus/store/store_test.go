package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"baseapi/internal/examplestatus/models"
	"baseapi/internal/platform/sqlstore"
	"baseapi/pkg/platform/sentinel"
)

type statusStore interface {
	Seeder
	FindAll(ctx context.Context) ([]*models.ExampleStatus, error)
	FindAllActive(ctx context.Context) ([]*models.ExampleStatus, error)
}

// StatusStoreSuite runs the catalog contract against every store.
type StatusStoreSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	newStore func(t *testing.T) statusStore
	store    statusStore
}

func TestInMemoryStore(t *testing.T) {
	suite.Run(t, &StatusStoreSuite{newStore: func(*testing.T) statusStore { return NewInMemory() }})
}

func TestSQLiteStore(t *testing.T) {
	suite.Run(t, &StatusStoreSuite{newStore: func(t *testing.T) statusStore {
		ctx := context.Background()
		db, err := sqlstore.OpenSQLite(ctx, filepath.Join(t.TempDir(), "statuses.db"), sqlstore.Options{MaxOpenConns: 1})
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })
		if err := db.Migrate(ctx); err != nil {
			t.Fatalf("migrate: %v", err)
		}
		return NewSQL(db)
	}})
}

func (s *StatusStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)
	s.store = s.newStore(s.T())
}

func (s *StatusStoreSuite) seed() {
	n, err := SeedCatalog(s.ctx, s.store, DefaultCatalog(s.now))
	s.Require().NoError(err)
	s.Require().Equal(3, n)
}

func (s *StatusStoreSuite) TestSeededCatalog() {
	s.seed()

	s.Run("find by id", func() {
		st, err := s.store.FindByID(s.ctx, "1")
		s.Require().NoError(err)
		s.Equal("Service A", st.Name)
		s.Equal("RUNNING", st.Status)
		s.True(st.Active)
		s.True(st.CreatedAt.Equal(s.now.Add(-10 * 24 * time.Hour)))
	})

	s.Run("unknown id is ErrNotFound", func() {
		_, err := s.store.FindByID(s.ctx, "99")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("find all keeps seed order", func() {
		all, err := s.store.FindAll(s.ctx)
		s.Require().NoError(err)
		s.Equal([]string{"1", "2", "3"}, ids(all))
	})

	s.Run("find all active drops inactive", func() {
		active, err := s.store.FindAllActive(s.ctx)
		s.Require().NoError(err)
		s.Equal([]string{"1", "2"}, ids(active))
	})
}

func (s *StatusStoreSuite) TestSeedIsIdempotent() {
	s.seed()

	changed := DefaultCatalog(s.now)
	changed[0].Name = "renamed"
	n, err := SeedCatalog(s.ctx, s.store, changed)
	s.Require().NoError(err)
	s.Zero(n)

	st, err := s.store.FindByID(s.ctx, "1")
	s.Require().NoError(err)
	s.Equal("Service A", st.Name)
}

func (s *StatusStoreSuite) TestSaveUpsertsInPlace() {
	s.seed()

	_, err := s.store.Save(s.ctx, &models.ExampleStatus{ID: "1", Name: "Service A", Status: "DEGRADED", CreatedAt: s.now, Active: false})
	s.Require().NoError(err)

	all, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"1", "2", "3"}, ids(all))
	s.Equal("DEGRADED", all[0].Status)

	active, err := s.store.FindAllActive(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"2"}, ids(active))
}

func (s *StatusStoreSuite) TestEmptyStoreListsAreEmpty() {
	all, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func ids(list []*models.ExampleStatus) []string {
	out := make([]string, 0, len(list))
	for _, st := range list {
		out = append(out, st.ID)
	}
	return out
}

type brokenSeeder struct{}

func (brokenSeeder) FindByID(context.Context, string) (*models.ExampleStatus, error) {
	return nil, errors.New("db down")
}

func (brokenSeeder) Save(context.Context, *models.ExampleStatus) (*models.ExampleStatus, error) {
	return nil, errors.New("db down")
}

func TestSeedCatalogStopsOnStoreError(t *testing.T) {
	n, err := SeedCatalog(context.Background(), brokenSeeder{}, DefaultCatalog(time.Now()))
	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestInMemoryReturnsCopies(t *testing.T) {
	st := NewInMemory()
	ctx := context.Background()
	_, _ = st.Save(ctx, &models.ExampleStatus{ID: "1", Name: "A"})

	got, _ := st.FindByID(ctx, "1")
	got.Name = "mutated"

	again, _ := st.FindByID(ctx, "1")
	assert.Equal(t, "A", again.Name)
}

// failThirdSave fails the third write while still exposing the SQL store's
// transaction support.
type failThirdSave struct {
	*SQLStore
	saves int
}

func (f *failThirdSave) Save(ctx context.Context, st *models.ExampleStatus) (*models.ExampleStatus, error) {
	f.saves++
	if f.saves == 3 {
		return nil, errors.New("disk full")
	}
	return f.SQLStore.Save(ctx, st)
}

func TestSQLSeedIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	db, err := sqlstore.OpenSQLite(ctx, filepath.Join(t.TempDir(), "statuses.db"), sqlstore.Options{MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	st := NewSQL(db)

	n, err := SeedCatalog(ctx, &failThirdSave{SQLStore: st}, DefaultCatalog(time.Now()))
	assert.Error(t, err)
	assert.Zero(t, n)

	all, err := st.FindAll(ctx)
	assert.NoError(t, err)
	assert.Empty(t, all)
}
