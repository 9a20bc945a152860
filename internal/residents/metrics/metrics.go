package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Onboarded *prometheus.CounterVec
	Rejected  *prometheus.CounterVec
}

// New registers the resident metrics with reg (prometheus.DefaultRegisterer when nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Onboarded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "carehub_residents_onboarded_total",
			Help: "Residents onboarded, by kind",
		}, []string{"kind"}),
		Rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "carehub_residents_rejected_total",
			Help: "Rejected onboarding attempts, by reason",
		}, []string{"reason"}),
	}
}

func (m *Metrics) IncrementOnboarded(kind string) {
	m.Onboarded.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementRejected(reason string) {
	m.Rejected.WithLabelValues(reason).Inc()
}
