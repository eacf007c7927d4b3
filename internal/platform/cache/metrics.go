package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultPut   = "put"
	resultError = "error"
)

// Metrics counts cache outcomes per named cache.
type Metrics struct {
	Operations *prometheus.CounterVec
}

// NewMetrics creates and registers cache metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Operations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "baseapi_cache_operations_total",
			Help: "Cache operations by cache name and result (hit, miss, put, error)",
		}, []string{"cache", "result"}),
	}
}

func (m *Metrics) observe(cache, result string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(cache, result).Inc()
}
