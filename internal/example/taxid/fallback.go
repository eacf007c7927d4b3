package taxid

import (
	"context"
	"log/slog"

	"baseapi/internal/example/metrics"
	"baseapi/internal/example/models"
	"baseapi/pkg/platform/circuit"
)

// Fallback reasons reported in metrics.
const (
	reasonOK          = "ok"
	reasonNoRemote    = "no_remote"
	reasonRemoteError = "remote_error"
	reasonCircuitOpen = "circuit_open"
)

// FallbackCalculator makes at most one remote attempt and answers with the
// local formula when it fails. Derive never returns an error.
type FallbackCalculator struct {
	remote  Calculator
	local   LocalCalculator
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// FallbackOption configures a FallbackCalculator.
type FallbackOption func(*FallbackCalculator)

// WithBreaker skips the remote call while the breaker is open.
func WithBreaker(b *circuit.Breaker) FallbackOption {
	return func(f *FallbackCalculator) {
		f.breaker = b
	}
}

func WithLogger(logger *slog.Logger) FallbackOption {
	return func(f *FallbackCalculator) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) FallbackOption {
	return func(f *FallbackCalculator) {
		f.metrics = m
	}
}

// NewFallback wraps remote. A nil remote always uses the local formula.
func NewFallback(remote Calculator, opts ...FallbackOption) *FallbackCalculator {
	f := &FallbackCalculator{
		remote: remote,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *FallbackCalculator) Derive(ctx context.Context, nationalID string, gender models.Gender) (string, error) {
	if f.remote == nil {
		return f.useLocal(nationalID, gender, reasonNoRemote), nil
	}
	if f.breaker != nil && !f.breaker.Allow() {
		return f.useLocal(nationalID, gender, reasonCircuitOpen), nil
	}

	taxID, err := f.remote.Derive(ctx, nationalID, gender)
	if err != nil {
		f.recordFailure(ctx)
		f.logger.WarnContext(ctx, "tax ID service failed, using local formula",
			"error", err,
			"gender", gender.String(),
		)
		return f.useLocal(nationalID, gender, reasonRemoteError), nil
	}

	f.recordSuccess(ctx)
	f.metrics.ObserveDerivation(metrics.SourceRemote, reasonOK)
	return taxID, nil
}

func (f *FallbackCalculator) useLocal(nationalID string, gender models.Gender, reason string) string {
	f.metrics.ObserveDerivation(metrics.SourceLocal, reason)
	return Local(nationalID, gender)
}

func (f *FallbackCalculator) recordFailure(ctx context.Context) {
	if f.breaker == nil {
		return
	}
	if _, change := f.breaker.RecordFailure(); change.Opened {
		f.logger.WarnContext(ctx, "tax ID circuit opened", "breaker", f.breaker.Name())
	}
}

func (f *FallbackCalculator) recordSuccess(ctx context.Context) {
	if f.breaker == nil {
		return
	}
	if _, change := f.breaker.RecordSuccess(); change.Closed {
		f.logger.InfoContext(ctx, "tax ID circuit closed", "breaker", f.breaker.Name())
	}
}
