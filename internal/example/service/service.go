package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"baseapi/internal/audit"
	"baseapi/internal/example/metrics"
	"baseapi/internal/example/models"
	"baseapi/internal/example/taxid"
	dErrors "baseapi/pkg/domain-errors"
	"baseapi/pkg/platform/sentinel"
	"baseapi/pkg/requestcontext"
)

const tracerName = "baseapi/internal/example/service"

// Store is the durable store for examples.
type Store interface {
	Save(ctx context.Context, e *models.Example) (*models.Example, error)
	FindByNationalID(ctx context.Context, nationalID string) (*models.Example, error)
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
}

// TaxIDCalculator derives the tax identifier for a new example.
type TaxIDCalculator interface {
	Derive(ctx context.Context, nationalID string, gender models.Gender) (string, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service runs the duplicate-check, derive, stamp, persist workflow.
type Service struct {
	store          Store
	taxIDs         TaxIDCalculator
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service. A nil calculator means the local formula only.
func New(store Store, taxIDs TaxIDCalculator, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("example store is required")
	}
	if taxIDs == nil {
		taxIDs = taxid.NewLocal()
	}
	s := &Service{
		store:  store,
		taxIDs: taxIDs,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Create persists a new example. The only error a caller can act on is
// CodeConflict for an already used national ID.
func (s *Service) Create(ctx context.Context, candidate *models.Example) (*models.Example, error) {
	ctx, span := s.tracer.Start(ctx, "example.Create",
		trace.WithAttributes(attribute.String("example.gender", candidate.Gender.String())))
	defer span.End()
	start := time.Now()
	defer s.metrics.ObserveCreate(start)

	exists, err := s.store.ExistsByNationalID(ctx, candidate.NationalID)
	if err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check national ID"))
	}
	if exists {
		return nil, s.duplicate(ctx, span, candidate.NationalID)
	}

	record := candidate.Clone()
	record.ID = 0
	record.TaxID = s.deriveTaxID(ctx, record)
	record.Stamp(requestcontext.Now(ctx))

	stored, err := s.store.Save(ctx, record)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			// Another request won the race between the check and the insert.
			return nil, s.duplicate(ctx, span, candidate.NationalID)
		}
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save example"))
	}

	s.metrics.IncrementCreated()
	span.SetAttributes(attribute.Int64("example.id", stored.ID))
	s.emit(ctx, audit.Event{
		Action:  audit.ActionExampleCreated,
		Subject: stored.NationalID,
		Attributes: map[string]string{
			"tax_id": stored.TaxID,
		},
	})
	return stored, nil
}

// FindByNationalID returns the example or ok=false when there is none.
func (s *Service) FindByNationalID(ctx context.Context, nationalID string) (*models.Example, bool, error) {
	ctx, span := s.tracer.Start(ctx, "example.FindByNationalID")
	defer span.End()

	e, err := s.store.FindByNationalID(ctx, nationalID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load example"))
	}
	return e, true, nil
}

// deriveTaxID never fails: any calculator error falls back to the local formula.
func (s *Service) deriveTaxID(ctx context.Context, e *models.Example) string {
	taxID, err := s.taxIDs.Derive(ctx, e.NationalID, e.Gender)
	if err != nil || taxID == "" {
		s.logger.WarnContext(ctx, "tax ID derivation failed, using local formula",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		s.metrics.ObserveDerivation(metrics.SourceLocal, "calculator_error")
		return taxid.Local(e.NationalID, e.Gender)
	}
	return taxID
}

func (s *Service) duplicate(ctx context.Context, span trace.Span, nationalID string) error {
	s.metrics.IncrementDuplicate()
	span.SetAttributes(attribute.Bool("example.duplicate", true))
	s.emit(ctx, audit.Event{
		Action:  audit.ActionExampleDuplicateRejected,
		Subject: nationalID,
	})
	return dErrors.New(dErrors.CodeConflict, "an example with this national ID already exists")
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// emit is best effort: audit failures are logged and never fail the request.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
		)
	}
}
