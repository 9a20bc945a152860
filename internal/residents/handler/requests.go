package handler

import (
	"strings"

	"carehub/internal/residents/models"
	"carehub/pkg/cnp"
	"carehub/pkg/validation"
)

type CreateResidentRequest struct {
	FullName string `json:"full_name" validate:"required,notblank,max=200"`
	CNP      string `json:"cnp" validate:"required,cnp"`
	Kind     string `json:"kind" validate:"required,oneof=child elder patient guest"`
	Group    string `json:"group" validate:"max=64"`
}

// Normalize trims free text and strips the separators staff type into codes.
func (r *CreateResidentRequest) Normalize() {
	if r == nil {
		return
	}
	r.FullName = strings.Join(strings.Fields(r.FullName), " ")
	r.CNP = cnp.Normalize(r.CNP)
	r.Kind = strings.ToLower(strings.TrimSpace(r.Kind))
	r.Group = strings.TrimSpace(r.Group)
}

func (r *CreateResidentRequest) Validate() error {
	return validation.Validate(r)
}

func (r *CreateResidentRequest) kind() models.Kind {
	return models.Kind(r.Kind)
}
