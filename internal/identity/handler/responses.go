package handler

import (
	"carehub/internal/identity/models"
	"carehub/pkg/cnp"
)

type CountyResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type CheckResponse struct {
	Valid         bool            `json:"valid"`
	ChecksumValid bool            `json:"checksum_valid"`
	BirthDate     string          `json:"birth_date,omitempty"`
	Sex           string          `json:"sex,omitempty"`
	Age           *int            `json:"age,omitempty"`
	County        *CountyResponse `json:"county,omitempty"`
	Foreign       bool            `json:"foreign"`
	Reason        string          `json:"reason,omitempty"`
}

type BatchItemResponse struct {
	Index int    `json:"index"`
	CNP   string `json:"cnp"`
	CheckResponse
}

type BatchResponse struct {
	Total   int                 `json:"total"`
	Valid   int                 `json:"valid"`
	Invalid int                 `json:"invalid"`
	Results []BatchItemResponse `json:"results"`
}

func toCheckResponse(r models.CheckResult) CheckResponse {
	resp := CheckResponse{
		Valid:         r.Valid,
		ChecksumValid: r.ChecksumValid,
		Reason:        string(r.Reason),
	}
	if !r.Valid {
		return resp
	}
	age := r.Identity.Age
	resp.BirthDate = r.Identity.BirthDate.String()
	resp.Sex = string(r.Identity.Sex)
	resp.Age = &age
	resp.Foreign = r.Identity.Foreign
	if c := r.Identity.County; c != nil {
		resp.County = &CountyResponse{Code: c.Code, Name: c.Name}
	}
	return resp
}

func toBatchResponse(codes []string, results []models.CheckResult) BatchResponse {
	resp := BatchResponse{
		Total:   len(results),
		Results: make([]BatchItemResponse, len(results)),
	}
	for i, r := range results {
		if r.Valid {
			resp.Valid++
		} else {
			resp.Invalid++
		}
		resp.Results[i] = BatchItemResponse{
			Index:         i,
			CNP:           cnp.Redact(codes[i]),
			CheckResponse: toCheckResponse(r),
		}
	}
	return resp
}
