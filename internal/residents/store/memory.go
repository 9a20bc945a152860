package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"carehub/internal/residents/models"
	"carehub/internal/sentinel"
	"carehub/pkg/domain"
)

// ErrNotFound is returned when a resident is not found.
var ErrNotFound = sentinel.ErrNotFound

// InMemory stores residents in memory, indexed by ID and by (tenant, CNP).
type InMemory struct {
	mu        sync.RWMutex
	residents map[domain.ResidentID]*models.Resident
	cnpIdx    map[cnpKey]domain.ResidentID
}

type cnpKey struct {
	tenant domain.TenantID
	cnp    string
}

// NewInMemory creates an in-memory resident store.
func NewInMemory() *InMemory {
	return &InMemory{
		residents: make(map[domain.ResidentID]*models.Resident),
		cnpIdx:    make(map[cnpKey]domain.ResidentID),
	}
}

// CreateIfCNPAvailable atomically stores r unless its tenant already has a
// resident with the same code.
func (s *InMemory) CreateIfCNPAvailable(_ context.Context, r *models.Resident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := cnpKey{tenant: r.TenantID, cnp: r.CNP}
	if _, exists := s.cnpIdx[key]; exists {
		return fmt.Errorf("cnp must be unique per tenant: %w", sentinel.ErrAlreadyExists)
	}
	stored := *r
	s.residents[r.ID] = &stored
	s.cnpIdx[key] = r.ID
	return nil
}

// FindByTenantAndID returns the resident only when it belongs to tenantID.
func (s *InMemory) FindByTenantAndID(_ context.Context, tenantID domain.TenantID, residentID domain.ResidentID) (*models.Resident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.residents[residentID]
	if !ok || r.TenantID != tenantID {
		return nil, ErrNotFound
	}
	found := *r
	return &found, nil
}

// FindByCNP looks a resident up by its code within a tenant.
func (s *InMemory) FindByCNP(_ context.Context, tenantID domain.TenantID, code string) (*models.Resident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	residentID, ok := s.cnpIdx[cnpKey{tenant: tenantID, cnp: code}]
	if !ok {
		return nil, ErrNotFound
	}
	found := *s.residents[residentID]
	return &found, nil
}

// ListByTenant returns the tenant's residents ordered by name, then ID.
func (s *InMemory) ListByTenant(_ context.Context, tenantID domain.TenantID) ([]*models.Resident, error) {
	s.mu.RLock()
	out := make([]*models.Resident, 0)
	for _, r := range s.residents {
		if r.TenantID == tenantID {
			found := *r
			out = append(out, &found)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *models.Resident) int {
		if c := strings.Compare(a.FullName, b.FullName); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

// Count returns the total number of residents across tenants.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.residents), nil
}
