package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Imports        *prometheus.CounterVec
	Rows           *prometheus.CounterVec
	ImportDuration prometheus.Histogram
}

// New registers the roster import metrics with reg (prometheus.DefaultRegisterer when nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Imports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "carehub_roster_imports_total",
			Help: "Roster imports, by format and outcome",
		}, []string{"format", "outcome"}),
		Rows: f.NewCounterVec(prometheus.CounterOpts{
			Name: "carehub_roster_rows_total",
			Help: "Roster rows processed, by status",
		}, []string{"status"}),
		ImportDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "carehub_roster_import_duration_seconds",
			Help:    "Time to parse, validate, and commit a roster",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) IncrementImport(format, outcome string) {
	m.Imports.WithLabelValues(format, outcome).Inc()
}

func (m *Metrics) AddRows(valid, invalid, committed int) {
	m.Rows.WithLabelValues("valid").Add(float64(valid))
	m.Rows.WithLabelValues("invalid").Add(float64(invalid))
	m.Rows.WithLabelValues("committed").Add(float64(committed))
}

func (m *Metrics) ObserveImport(start time.Time) {
	m.ImportDuration.Observe(time.Since(start).Seconds())
}
