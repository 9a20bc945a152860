package handler

import (
	"time"

	"carehub/internal/residents/models"
	"carehub/pkg/cnp"
)

type ResidentResponse struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenant_id"`
	FullName  string `json:"full_name"`
	CNP       string `json:"cnp"`
	Kind      string `json:"kind"`
	Group     string `json:"group,omitempty"`
	BirthDate string `json:"birth_date"`
	Sex       string `json:"sex"`
	Age       int    `json:"age"`
	Minor     bool   `json:"minor"`
	CreatedAt string `json:"created_at"`
}

type ResidentListResponse struct {
	Residents []ResidentResponse `json:"residents"`
	Total     int                `json:"total"`
}

// toResidentResponse renders a resident with age computed at asOf.
// The code itself is redacted in API responses.
func toResidentResponse(r *models.Resident, asOf time.Time) ResidentResponse {
	return ResidentResponse{
		ID:        r.ID.String(),
		TenantID:  r.TenantID.String(),
		FullName:  r.FullName,
		CNP:       cnp.Redact(r.CNP),
		Kind:      string(r.Kind),
		Group:     r.Group,
		BirthDate: r.BirthDate.String(),
		Sex:       string(r.Sex),
		Age:       r.AgeAt(asOf),
		Minor:     r.IsMinor(asOf),
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toResidentListResponse(list []*models.Resident, asOf time.Time) ResidentListResponse {
	out := make([]ResidentResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toResidentResponse(r, asOf))
	}
	return ResidentListResponse{Residents: out, Total: len(out)}
}
