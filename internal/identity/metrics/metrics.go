package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Checks    *prometheus.CounterVec
	BatchSize prometheus.Histogram
}

// New registers the identity check metrics with reg (prometheus.DefaultRegisterer when nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Checks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "carehub_cnp_checks_total",
			Help: "Personal numeric code checks, by result (valid or rejection reason)",
		}, []string{"result"}),
		BatchSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "carehub_cnp_batch_size",
			Help:    "Number of codes per batch check",
			Buckets: []float64{1, 5, 10, 50, 100, 250, 500, 1000},
		}),
	}
}

func (m *Metrics) IncrementCheck(result string) {
	m.Checks.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveBatch(size int) {
	m.BatchSize.Observe(float64(size))
}
