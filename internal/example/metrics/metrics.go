package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tax ID sources.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

// Metrics provides observability for the example module.
type Metrics struct {
	ExamplesCreated    prometheus.Counter
	DuplicatesRejected prometheus.Counter
	TaxIDDerivations   *prometheus.CounterVec
	CreateDuration     prometheus.Histogram
}

// New creates the example module metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ExamplesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "baseapi_examples_created_total",
			Help: "Total number of examples persisted",
		}),
		DuplicatesRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "baseapi_examples_duplicates_rejected_total",
			Help: "Create attempts rejected because the national ID was already used",
		}),
		TaxIDDerivations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "baseapi_tax_id_derivations_total",
			Help: "Tax ID derivations by source (remote, local) and reason",
		}, []string{"source", "reason"}),
		CreateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "baseapi_example_create_duration_seconds",
			Help:    "Duration of example creation including tax ID derivation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementCreated records a successful creation.
func (m *Metrics) IncrementCreated() {
	if m == nil {
		return
	}
	m.ExamplesCreated.Inc()
}

// IncrementDuplicate records a duplicate-key rejection.
func (m *Metrics) IncrementDuplicate() {
	if m == nil {
		return
	}
	m.DuplicatesRejected.Inc()
}

// ObserveDerivation records where a tax ID came from and why.
func (m *Metrics) ObserveDerivation(source, reason string) {
	if m == nil {
		return
	}
	m.TaxIDDerivations.WithLabelValues(source, reason).Inc()
}

// ObserveCreate records the duration of a Create call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCreate(start time.Time) {
	if m == nil {
		return
	}
	m.CreateDuration.Observe(time.Since(start).Seconds())
}
