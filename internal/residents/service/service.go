// Package service onboards residents and serves them back to their tenant.
package service

import (
	"context"
	"errors"
	"log/slog"

	residentmetrics "carehub/internal/residents/metrics"
	"carehub/internal/residents/models"
	"carehub/internal/sentinel"
	"carehub/pkg/cnp"
	"carehub/pkg/domain"
	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/platform/privacy"
	"carehub/pkg/requestcontext"
)

type Store interface {
	CreateIfCNPAvailable(ctx context.Context, r *models.Resident) error
	FindByTenantAndID(ctx context.Context, tenantID domain.TenantID, residentID domain.ResidentID) (*models.Resident, error)
	FindByCNP(ctx context.Context, tenantID domain.TenantID, code string) (*models.Resident, error)
	ListByTenant(ctx context.Context, tenantID domain.TenantID) ([]*models.Resident, error)
	Count(ctx context.Context) (int, error)
}

// Service orchestrates resident onboarding.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *residentmetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *residentmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCommand carries an onboarding request. CNP must already be normalized.
type CreateCommand struct {
	TenantID domain.TenantID
	FullName string
	CNP      string
	Kind     models.Kind
	Group    string
}

// Create derives birth date and sex from the code and stores the resident.
// A code already enrolled in the same tenant is a conflict.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*models.Resident, error) {
	if cmd.TenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant ID required")
	}

	r, err := models.NewResident(domain.NewResidentID(), cmd.TenantID, cmd.FullName, cmd.CNP, cmd.Kind, cmd.Group, requestcontext.Now(ctx))
	if err != nil {
		s.incrementRejected("invalid")
		return nil, err
	}

	if err := s.store.CreateIfCNPAvailable(ctx, r); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			s.incrementRejected("duplicate")
			s.logInfo(ctx, "resident already enrolled",
				"tenant_id", cmd.TenantID.String(),
				"cnp_hash", privacy.HashIdentifier(r.CNP),
			)
			return nil, dErrors.New(dErrors.CodeConflict, "a resident with this cnp already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store resident")
	}

	s.incrementOnboarded(string(r.Kind))
	s.logInfo(ctx, "resident onboarded",
		"tenant_id", r.TenantID.String(),
		"resident_id", r.ID.String(),
		"cnp", cnp.Redact(r.CNP),
		"cnp_hash", privacy.HashIdentifier(r.CNP),
		"kind", string(r.Kind),
	)
	return r, nil
}

func (s *Service) Get(ctx context.Context, tenantID domain.TenantID, residentID domain.ResidentID) (*models.Resident, error) {
	if tenantID.IsNil() || residentID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant and resident IDs required")
	}
	r, err := s.store.FindByTenantAndID(ctx, tenantID, residentID)
	if err != nil {
		return nil, wrapResidentErr(err)
	}
	return r, nil
}

// FindByCNP looks up an enrolled resident by code inside a tenant.
func (s *Service) FindByCNP(ctx context.Context, tenantID domain.TenantID, code string) (*models.Resident, error) {
	r, err := s.store.FindByCNP(ctx, tenantID, code)
	if err != nil {
		return nil, wrapResidentErr(err)
	}
	return r, nil
}

func (s *Service) List(ctx context.Context, tenantID domain.TenantID) ([]*models.Resident, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant ID required")
	}
	list, err := s.store.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list residents")
	}
	return list, nil
}

// Ready is the readiness check for the resident store.
func (s *Service) Ready(ctx context.Context) error {
	_, err := s.store.Count(ctx)
	return err
}

func wrapResidentErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "resident not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load resident")
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}

func (s *Service) incrementOnboarded(kind string) {
	if s.metrics != nil {
		s.metrics.IncrementOnboarded(kind)
	}
}

func (s *Service) incrementRejected(reason string) {
	if s.metrics != nil {
		s.metrics.IncrementRejected(reason)
	}
}
