// Package models holds the import report returned for an uploaded roster.
package models

import (
	"time"

	"carehub/pkg/domain"
)

// RowResult is the verdict for one roster row. Errors are complete sentences
// prefixed with the row's line number, ready to show to the uploader.
type RowResult struct {
	Line       int
	CNP        string
	Name       string
	Group      string
	Valid      bool
	BirthDate  string
	Sex        string
	Age        *int
	Errors     []string
	ResidentID string
	Committed  bool
}

// Report summarizes an import. Rows keep file order.
type Report struct {
	ImportID   domain.ImportID
	TenantID   domain.TenantID
	Format     string
	HeaderLine int
	AsOf       time.Time
	Committed  bool
	Total      int
	Valid      int
	Invalid    int
	Rows       []RowResult
}

// Tally recomputes the counters from Rows.
func (r *Report) Tally() {
	r.Total, r.Valid, r.Invalid = len(r.Rows), 0, 0
	for _, row := range r.Rows {
		if row.Valid {
			r.Valid++
		} else {
			r.Invalid++
		}
	}
}

// CommittedRows counts rows that became residents.
func (r *Report) CommittedRows() int {
	n := 0
	for _, row := range r.Rows {
		if row.Committed {
			n++
		}
	}
	return n
}
