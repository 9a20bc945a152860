// Package models holds the results of identity code checks.
package models

import "carehub/pkg/cnp"

// MaxBatchSize bounds a single batch check.
const MaxBatchSize = 1000

// CheckResult is the outcome of checking one code at a reference date. Derived
// fields are set only when Valid is true.
type CheckResult struct {
	// Valid means the code decodes: checksum, century, and calendar date all pass.
	Valid bool
	// ChecksumValid is the bare control-digit check; it can be true while Valid is
	// false for century digits 0 and 9 or impossible dates.
	ChecksumValid bool
	Reason        cnp.Reason
	Identity      cnp.Identity
}

// ResultLabel is the metrics label for a result: "valid" or the rejection reason.
func (r CheckResult) ResultLabel() string {
	if r.Valid {
		return "valid"
	}
	return string(r.Reason)
}
