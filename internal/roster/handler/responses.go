package handler

import (
	"time"

	"carehub/internal/roster/models"
)

type RowResponse struct {
	Line       int      `json:"line"`
	CNP        string   `json:"cnp,omitempty"`
	Name       string   `json:"name,omitempty"`
	Group      string   `json:"group,omitempty"`
	Valid      bool     `json:"valid"`
	BirthDate  string   `json:"birth_date,omitempty"`
	Sex        string   `json:"sex,omitempty"`
	Age        *int     `json:"age,omitempty"`
	Errors     []string `json:"errors,omitempty"`
	ResidentID string   `json:"resident_id,omitempty"`
	Committed  bool     `json:"committed"`
}

type ImportResponse struct {
	ImportID   string        `json:"import_id"`
	TenantID   string        `json:"tenant_id"`
	Format     string        `json:"format"`
	HeaderLine int           `json:"header_line"`
	AsOf       string        `json:"as_of"`
	Committed  bool          `json:"committed"`
	Total      int           `json:"total"`
	Valid      int           `json:"valid"`
	Invalid    int           `json:"invalid"`
	Rows       []RowResponse `json:"rows"`
}

func toImportResponse(r *models.Report) ImportResponse {
	rows := make([]RowResponse, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, RowResponse{
			Line:       row.Line,
			CNP:        row.CNP,
			Name:       row.Name,
			Group:      row.Group,
			Valid:      row.Valid,
			BirthDate:  row.BirthDate,
			Sex:        row.Sex,
			Age:        row.Age,
			Errors:     row.Errors,
			ResidentID: row.ResidentID,
			Committed:  row.Committed,
		})
	}
	return ImportResponse{
		ImportID:   r.ImportID.String(),
		TenantID:   r.TenantID.String(),
		Format:     r.Format,
		HeaderLine: r.HeaderLine,
		AsOf:       r.AsOf.Format(time.DateOnly),
		Committed:  r.Committed,
		Total:      r.Total,
		Valid:      r.Valid,
		Invalid:    r.Invalid,
		Rows:       rows,
	}
}
