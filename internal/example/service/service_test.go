package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,TaxIDCalculator,AuditPublisher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"baseapi/internal/audit"
	"baseapi/internal/example/metrics"
	"baseapi/internal/example/models"
	"baseapi/internal/example/service/mocks"
	"baseapi/internal/example/store"
	"baseapi/internal/example/taxid"
	"baseapi/internal/platform/logger"
	dErrors "baseapi/pkg/domain-errors"
	"baseapi/pkg/platform/sentinel"
	"baseapi/pkg/requestcontext"
)

// =============================================================================
// Creation Service Test Suite
// =============================================================================
// Justification for unit tests: the create workflow has strict ordering and
// call-count guarantees (no derivation or persist after a duplicate, a single
// derivation attempt, one persist) that are only observable with mocks.

type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockStore *mocks.MockStore
	mockTaxID *mocks.MockTaxIDCalculator
	mockAudit *mocks.MockAuditPublisher
	metrics   *metrics.Metrics
	service   *Service
	now       time.Time
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockStore(s.ctrl)
	s.mockTaxID = mocks.NewMockTaxIDCalculator(s.ctrl)
	s.mockAudit = mocks.NewMockAuditPublisher(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	svc, err := New(s.mockStore, s.mockTaxID,
		WithLogger(logger.Discard()),
		WithAuditPublisher(s.mockAudit),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
	s.service = svc
	s.now = time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) candidate(nationalID string, gender models.Gender) *models.Example {
	c, err := models.NewCandidate("Juan", "Perez", nationalID, gender)
	s.Require().NoError(err)
	return c
}

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *ServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil, s.mockTaxID)
		s.Error(err)
		s.Contains(err.Error(), "example store is required")
	})

	s.Run("nil calculator defaults to local formula", func() {
		svc, err := New(s.mockStore, nil)
		s.Require().NoError(err)
		s.IsType(taxid.LocalCalculator{}, svc.taxIDs)
	})

	s.Run("options are applied", func() {
		l := logger.Discard()
		svc, err := New(s.mockStore, s.mockTaxID, WithLogger(l), WithAuditPublisher(s.mockAudit))
		s.Require().NoError(err)
		s.Equal(l, svc.logger)
		s.Equal(s.mockAudit, svc.auditPublisher)
	})
}

// =============================================================================
// Create
// =============================================================================

func (s *ServiceSuite) TestCreateHappyPath() {
	var saved *models.Example
	gomock.InOrder(
		s.mockStore.EXPECT().ExistsByNationalID(gomock.Any(), "12345678").Return(false, nil),
		s.mockTaxID.EXPECT().Derive(gomock.Any(), "12345678", models.GenderMale).Return("20-12345678-3", nil),
		s.mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e *models.Example) (*models.Example, error) {
				saved = e
				out := e.Clone()
				out.ID = 42
				return out, nil
			}),
	)
	s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e audit.Event) error {
			s.Equal(audit.ActionExampleCreated, e.Action)
			s.Equal("12345678", e.Subject)
			return nil
		})

	got, err := s.service.Create(s.ctx, s.candidate("12345678", models.GenderMale))
	s.Require().NoError(err)

	s.Equal(int64(42), got.ID)
	s.Equal("20-12345678-3", got.TaxID)
	s.Equal(s.now, got.CreatedAt)
	s.Equal(got.CreatedAt, got.UpdatedAt)
	s.Zero(saved.ID, "store assigns the id")
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.ExamplesCreated))
}

func (s *ServiceSuite) TestCreateDuplicateStopsBeforeDerivationAndPersist() {
	s.mockStore.EXPECT().ExistsByNationalID(gomock.Any(), "12345678").Return(true, nil)
	s.mockTaxID.EXPECT().Derive(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	s.mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)
	s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e audit.Event) error {
			s.Equal(audit.ActionExampleDuplicateRejected, e.Action)
			return nil
		})

	_, err := s.service.Create(s.ctx, s.candidate("12345678", models.GenderMale))
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.DuplicatesRejected))
}

func (s *ServiceSuite) TestCreateFallsBackWhenCalculatorFails() {
	s.Run("male", func() {
		s.mockStore.EXPECT().ExistsByNationalID(gomock.Any(), "12345678").Return(false, nil)
		s.mockTaxID.EXPECT().Derive(gomock.Any(), "12345678", models.GenderMale).Return("", errors.New("timeout")).Times(1)
		s.mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(echoSave)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		got, err := s.service.Create(s.ctx, s.candidate("12345678", models.GenderMale))
		s.Require().NoError(err)
		s.Equal("20-12345678-7", got.TaxID)
	})

	s.Run("female", func() {
		s.mockStore.EXPECT().ExistsByNationalID(gomock.Any(), "7654321").Return(false, nil)
		s.mockTaxID.EXPECT().Derive(gomock.Any(), "7654321", models.GenderFemale).Return("", nil)
		s.mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(echoSave)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		got, err := s.service.Create(s.ctx, s.candidate("7654321", models.GenderFemale))
		s.Require().NoError(err)
		s.Equal("27-7654321-6", got.TaxID)
	})
}

func (s *ServiceSuite) TestCreateMapsStorageRaceToConflict() {
	s.mockStore.EXPECT().ExistsByNationalID(gomock.Any(), "12345678").Return(false, nil)
	s.mockTaxID.EXPECT().Derive(gomock.Any(), gomock.Any(), gomock.Any()).Return("20-12345678-3", nil)
	s.mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrAlreadyUsed)
	s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

	_, err := s.service.Create(s.ctx, s.candidate("12345678", models.GenderMale))
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestCreateStoreFailures() {
	s.Run("existence check failure is internal", func() {
		s.mockStore.EXPECT().ExistsByNationalID(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))

		_, err := s.service.Create(s.ctx, s.candidate("12345678", models.GenderMale))
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("save failure is internal", func() {
		s.mockStore.EXPECT().ExistsByNationalID(gomock.Any(), gomock.Any()).Return(false, nil)
		s.mockTaxID.EXPECT().Derive(gomock.Any(), gomock.Any(), gomock.Any()).Return("20-12345678-3", nil)
		s.mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil, errors.New("disk full"))

		_, err := s.service.Create(s.ctx, s.candidate("12345678", models.GenderMale))
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestAuditFailureDoesNotFailCreate() {
	s.mockStore.EXPECT().ExistsByNationalID(gomock.Any(), gomock.Any()).Return(false, nil)
	s.mockTaxID.EXPECT().Derive(gomock.Any(), gomock.Any(), gomock.Any()).Return("20-12345678-3", nil)
	s.mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(echoSave)
	s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	_, err := s.service.Create(s.ctx, s.candidate("12345678", models.GenderMale))
	s.NoError(err)
}

// =============================================================================
// FindByNationalID
// =============================================================================

func (s *ServiceSuite) TestFindByNationalID() {
	s.Run("found", func() {
		s.mockStore.EXPECT().FindByNationalID(gomock.Any(), "12345678").Return(&models.Example{ID: 1, NationalID: "12345678"}, nil)

		got, ok, err := s.service.FindByNationalID(s.ctx, "12345678")
		s.Require().NoError(err)
		s.True(ok)
		s.Equal(int64(1), got.ID)
	})

	s.Run("absent is not an error", func() {
		s.mockStore.EXPECT().FindByNationalID(gomock.Any(), "00000000").Return(nil, sentinel.ErrNotFound)

		got, ok, err := s.service.FindByNationalID(s.ctx, "00000000")
		s.NoError(err)
		s.False(ok)
		s.Nil(got)
	})

	s.Run("store failure is internal", func() {
		s.mockStore.EXPECT().FindByNationalID(gomock.Any(), "12345678").Return(nil, errors.New("db down"))

		_, _, err := s.service.FindByNationalID(s.ctx, "12345678")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func echoSave(_ context.Context, e *models.Example) (*models.Example, error) {
	out := e.Clone()
	out.ID = 1
	return out, nil
}

// =============================================================================
// Against the in-memory store
// =============================================================================

type downCalculator struct{ calls atomic.Int32 }

func (d *downCalculator) Derive(context.Context, string, models.Gender) (string, error) {
	d.calls.Add(1)
	return "", sentinel.ErrUnavailable
}

// TestCreateOfflineThenDuplicate covers a full create with the tax ID service
// down followed by a second create for the same national ID.
func TestCreateOfflineThenDuplicate(t *testing.T) {
	st := store.NewInMemory()
	calc := &downCalculator{}
	svc, err := New(st, taxid.NewFallback(calc, taxid.WithLogger(logger.Discard())), WithLogger(logger.Discard()))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	first, err := svc.Create(ctx, &models.Example{FirstName: "Juan", LastName: "Perez", NationalID: "12345678", Gender: models.GenderMale})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if first.TaxID != "20-12345678-7" {
		t.Fatalf("tax id = %q", first.TaxID)
	}
	if first.CreatedAt.IsZero() || !first.CreatedAt.Equal(first.UpdatedAt) {
		t.Fatalf("timestamps not set equally: %v / %v", first.CreatedAt, first.UpdatedAt)
	}

	_, err = svc.Create(ctx, &models.Example{FirstName: "Otro", LastName: "Perez", NationalID: "12345678", Gender: models.GenderMale})
	if !dErrors.HasCode(err, dErrors.CodeConflict) {
		t.Fatalf("second create err = %v, want conflict", err)
	}
	if calc.calls.Load() != 1 {
		t.Fatalf("calculator called %d times, want 1", calc.calls.Load())
	}

	all, _ := st.FindAll(ctx)
	if len(all) != 1 {
		t.Fatalf("store holds %d records, want 1", len(all))
	}
}

// TestConcurrentCreatorsSameNationalID races creators past the pre-check; the
// store constraint must leave exactly one record and the rest must conflict.
func TestConcurrentCreatorsSameNationalID(t *testing.T) {
	st := store.NewInMemory()
	svc, err := New(st, taxid.NewLocal(), WithLogger(logger.Discard()))
	if err != nil {
		t.Fatal(err)
	}

	const goroutines = 25
	var wg sync.WaitGroup
	var ok, conflict atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), &models.Example{NationalID: "12345678", Gender: models.GenderFemale})
			switch {
			case err == nil:
				ok.Add(1)
			case dErrors.HasCode(err, dErrors.CodeConflict):
				conflict.Add(1)
			}
		}()
	}
	wg.Wait()

	if ok.Load() != 1 || conflict.Load() != goroutines-1 {
		t.Fatalf("ok=%d conflict=%d", ok.Load(), conflict.Load())
	}
}
