// Package httptransport assembles the public router: the shared middleware
// stack, the per-route body limits, and the metrics endpoint.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"carehub/pkg/platform/middleware/request"
	"carehub/pkg/platform/middleware/requesttime"
)

// Registrar mounts a feature's routes.
type Registrar interface {
	Register(r chi.Router)
}

// Limits bound request handling. JSON bodies and roster uploads get separate
// caps because nested MaxBytesReaders apply the smaller one.
type Limits struct {
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	ImportMaxBytes int64
}

// Routes groups registrars by the body policy they need.
type Routes struct {
	Health       Registrar
	JSON         []Registrar
	Roster       Registrar
	RosterMedia  []string
	Metrics      prometheus.Gatherer
}

// NewRouter wires every endpoint behind the shared middleware stack.
func NewRouter(routes Routes, limits Limits, metrics *request.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(request.ClientIP)
	r.Use(request.Logger(logger))
	r.Use(request.Latency(metrics))
	r.Use(request.Timeout(limits.RequestTimeout))
	r.Use(requesttime.Middleware)

	if routes.Health != nil {
		routes.Health.Register(r)
	}
	if routes.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(routes.Metrics, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(request.BodyLimit(limits.MaxBodyBytes))
		r.Use(request.ContentTypeJSON)
		for _, reg := range routes.JSON {
			reg.Register(r)
		}
	})

	if routes.Roster != nil {
		r.Group(func(r chi.Router) {
			r.Use(request.BodyLimit(limits.ImportMaxBytes))
			r.Use(request.ContentType(routes.RosterMedia...))
			routes.Roster.Register(r)
		})
	}

	return r
}
