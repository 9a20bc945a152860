// Package models holds the resident aggregate. Birth date and sex are derived
// from the personal numeric code once at onboarding; age is never stored.
package models

import (
	"strings"
	"time"

	"carehub/pkg/cnp"
	"carehub/pkg/domain"
	dErrors "carehub/pkg/domain-errors"
)

// Kind is the role a resident has inside an institution.
type Kind string

const (
	KindChild   Kind = "child"
	KindElder   Kind = "elder"
	KindPatient Kind = "patient"
	KindGuest   Kind = "guest"
)

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindChild, KindElder, KindPatient, KindGuest:
		return true
	}
	return false
}

type Resident struct {
	ID        domain.ResidentID
	TenantID  domain.TenantID
	FullName  string
	CNP       string
	Kind      Kind
	Group     string
	BirthDate cnp.Date
	Sex       cnp.Sex
	CreatedAt time.Time
}

// NewResident builds a resident from an already normalized code. The code must
// decode to a birth date; anything else is a validation error.
func NewResident(id domain.ResidentID, tenantID domain.TenantID, fullName, code string, kind Kind, group string, now time.Time) (*Resident, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "full_name is required")
	}
	if !kind.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "kind must be one of [child elder patient guest], got %q", kind)
	}
	birth, ok := cnp.BirthDate(code)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeValidation, "cnp is not a valid personal numeric code (%s)", cnp.Diagnose(code))
	}
	sex, _ := cnp.SexOf(code)
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "resident must belong to a tenant")
	}
	return &Resident{
		ID:        id,
		TenantID:  tenantID,
		FullName:  fullName,
		CNP:       code,
		Kind:      kind,
		Group:     strings.TrimSpace(group),
		BirthDate: birth,
		Sex:       sex,
		CreatedAt: now,
	}, nil
}

// AgeAt is the resident's age in whole years on the calendar date of asOf.
func (r *Resident) AgeAt(asOf time.Time) int {
	return domain.YearsBetween(r.BirthDate.Year, r.BirthDate.Month, r.BirthDate.Day, asOf)
}

// IsMinor reports whether the resident is under 18 on asOf.
func (r *Resident) IsMinor(asOf time.Time) bool {
	return !domain.IsAdult(r.BirthDate.Year, r.BirthDate.Month, r.BirthDate.Day, asOf)
}
