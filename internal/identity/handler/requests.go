package handler

import (
	"carehub/pkg/cnp"
	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/validation"
)

type CheckRequest struct {
	CNP string `json:"cnp" validate:"required"`
}

func (r *CheckRequest) Normalize() {
	if r == nil {
		return
	}
	r.CNP = cnp.Normalize(r.CNP)
}

func (r *CheckRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

// BatchRequest is capped at models.MaxBatchSize codes.
type BatchRequest struct {
	CNPs []string `json:"cnps" validate:"required,min=1,max=1000"`
}

func (r *BatchRequest) Normalize() {
	if r == nil {
		return
	}
	for i, code := range r.CNPs {
		r.CNPs[i] = cnp.Normalize(code)
	}
}

func (r *BatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}
