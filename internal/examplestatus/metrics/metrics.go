package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes.
const (
	OutcomeCacheHit   = "cache_hit"
	OutcomeStoreHit   = "store_hit"
	OutcomeNotFound   = "not_found"
	OutcomeBlankID    = "blank_id"
	OutcomeStoreError = "store_error"
)

// Metrics provides observability for the status catalog.
type Metrics struct {
	Lookups *prometheus.CounterVec
}

// New creates the catalog metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Lookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "baseapi_example_status_lookups_total",
			Help: "Point lookups of example statuses by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveLookup records how a GetByID call was answered.
func (m *Metrics) ObserveLookup(outcome string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(outcome).Inc()
}
