// Package domain provides type-safe identifiers and shared calendar arithmetic.
package domain

import (
	"github.com/google/uuid"

	dErrors "carehub/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing ResidentID where TenantID is expected.
type (
	TenantID   uuid.UUID
	ResidentID uuid.UUID
	ImportID   uuid.UUID
)

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseTenantID(s string) (TenantID, error) {
	id, err := parseUUID(s, "tenant ID")
	return TenantID(id), err
}

func ParseResidentID(s string) (ResidentID, error) {
	id, err := parseUUID(s, "resident ID")
	return ResidentID(id), err
}

func ParseImportID(s string) (ImportID, error) {
	id, err := parseUUID(s, "import ID")
	return ImportID(id), err
}

// New* functions mint random identifiers.

func NewResidentID() ResidentID { return ResidentID(uuid.New()) }
func NewImportID() ImportID     { return ImportID(uuid.New()) }

// String methods - for logging and debugging.

func (id TenantID) String() string   { return uuid.UUID(id).String() }
func (id ResidentID) String() string { return uuid.UUID(id).String() }
func (id ImportID) String() string   { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id TenantID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ResidentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ImportID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets typed IDs render as plain UUID strings in JSON.
func (id TenantID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id ResidentID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ImportID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }

// parseUUID is the shared validation logic.
// Note: Nil UUIDs are allowed here. Use IsNil() at the service layer for
// business validation, which allows store lookups to return proper
// "not found" errors for consistency.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}
