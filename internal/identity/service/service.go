// Package service checks personal numeric codes against the request's
// reference date.
package service

import (
	"context"
	"log/slog"
	"time"

	identitymetrics "carehub/internal/identity/metrics"
	"carehub/internal/identity/models"
	"carehub/pkg/cnp"
	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/requestcontext"
)

type Service struct {
	logger  *slog.Logger
	metrics *identitymetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *identitymetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check decodes one code. Rejections are results, not errors.
func (s *Service) Check(ctx context.Context, code string) models.CheckResult {
	result := check(code, requestcontext.Now(ctx))
	s.record(ctx, code, result)
	return result
}

// CheckBatch decodes every code against one shared reference date and returns
// results in input order.
func (s *Service) CheckBatch(ctx context.Context, codes []string) ([]models.CheckResult, error) {
	if len(codes) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "cnps must contain at least one code")
	}
	if len(codes) > models.MaxBatchSize {
		return nil, dErrors.Newf(dErrors.CodeValidation, "cnps must contain at most %d codes", models.MaxBatchSize)
	}

	asOf := requestcontext.Now(ctx)
	results := make([]models.CheckResult, len(codes))
	for i, code := range codes {
		if err := ctx.Err(); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "batch check cancelled")
		}
		results[i] = check(code, asOf)
		s.record(ctx, code, results[i])
	}
	if s.metrics != nil {
		s.metrics.ObserveBatch(len(codes))
	}
	return results, nil
}

func check(code string, asOf time.Time) models.CheckResult {
	result := models.CheckResult{
		ChecksumValid: cnp.IsValid(code),
		Reason:        cnp.Diagnose(code),
	}
	if ident, ok := cnp.Decode(code, asOf); ok {
		result.Valid = true
		result.Identity = ident
	}
	return result
}

func (s *Service) record(ctx context.Context, code string, result models.CheckResult) {
	if s.metrics != nil {
		s.metrics.IncrementCheck(result.ResultLabel())
	}
	if s.logger != nil && !result.Valid {
		s.logger.DebugContext(ctx, "cnp rejected",
			"cnp", cnp.Redact(code),
			"reason", string(result.Reason),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
