// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"

	"github.com/google/uuid"

	"carehub/pkg/cnp"
	"carehub/pkg/domain"
)

// TestIDs provides fixed IDs for deterministic test data.
var TestIDs = struct {
	TenantID1   domain.TenantID
	TenantID2   domain.TenantID
	ResidentID1 domain.ResidentID
	ResidentID2 domain.ResidentID
	ImportID1   domain.ImportID
}{
	TenantID1:   domain.TenantID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000001")),
	TenantID2:   domain.TenantID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000002")),
	ResidentID1: domain.ResidentID(uuid.MustParse("bbbb0000-0000-0000-0000-000000000001")),
	ResidentID2: domain.ResidentID(uuid.MustParse("bbbb0000-0000-0000-0000-000000000002")),
	ImportID1:   domain.ImportID(uuid.MustParse("dddd0000-0000-0000-0000-000000000001")),
}

// CNPBuilder assembles personal numeric codes with a correct control digit.
// Defaults describe a boy born 2020-09-14 in Cluj.
type CNPBuilder struct {
	century int
	year    int
	month   int
	day     int
	county  int
	serial  int
}

// NewCNPBuilder creates a builder with the defaults above.
func NewCNPBuilder() *CNPBuilder {
	return &CNPBuilder{century: 5, year: 20, month: 9, day: 14, county: 12, serial: 1}
}

// Born sets the birth date and picks the century digit for male and year.
// Use Female afterwards to switch sex.
func (b *CNPBuilder) Born(year, month, day int) *CNPBuilder {
	switch {
	case year >= 2000:
		b.century = 5
	case year >= 1900:
		b.century = 1
	default:
		b.century = 3
	}
	b.year = year % 100
	b.month = month
	b.day = day
	return b
}

// Female switches the century digit to its even counterpart.
func (b *CNPBuilder) Female() *CNPBuilder {
	if b.century%2 == 1 {
		b.century++
	}
	return b
}

// Foreign switches to the foreign-resident digits 7 (male) or 8 (female).
func (b *CNPBuilder) Foreign() *CNPBuilder {
	if b.century%2 == 1 {
		b.century = 7
	} else {
		b.century = 8
	}
	return b
}

// Century overrides the first digit directly, including unmapped 0 and 9.
func (b *CNPBuilder) Century(digit int) *CNPBuilder {
	b.century = digit
	return b
}

func (b *CNPBuilder) County(code int) *CNPBuilder {
	b.county = code
	return b
}

func (b *CNPBuilder) Serial(n int) *CNPBuilder {
	b.serial = n
	return b
}

// Build returns the 13-digit code. It panics on field values that cannot be
// rendered as digits, which only happens with a broken fixture.
func (b *CNPBuilder) Build() string {
	prefix := fmt.Sprintf("%d%02d%02d%02d%02d%03d", b.century, b.year, b.month, b.day, b.county, b.serial)
	check, ok := cnp.CheckDigit(prefix)
	if !ok {
		panic("testutil: invalid CNP fixture prefix " + prefix)
	}
	return fmt.Sprintf("%s%d", prefix, check)
}

// BuildWrongCheck returns the code with a control digit that fails the checksum.
func (b *CNPBuilder) BuildWrongCheck() string {
	valid := b.Build()
	last := int(valid[len(valid)-1] - '0')
	return fmt.Sprintf("%s%d", valid[:len(valid)-1], (last+1)%10)
}
