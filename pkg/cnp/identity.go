package cnp

import "time"

// Identity is the full view derived from a code at a reference date.
// It is recomputed on every call and never stored.
type Identity struct {
	Code      string
	BirthDate Date
	Sex       Sex
	Age       int
	County    *County
	Foreign   bool
}

// Decode derives every field at once. It reports false whenever BirthDate would,
// which also covers checksum failures and unmapped century digits.
func Decode(code string, asOf time.Time) (Identity, bool) {
	birth, ok := BirthDate(code)
	if !ok {
		return Identity{}, false
	}
	sex, _ := SexOf(code)
	age, _ := Age(code, asOf)
	ident := Identity{
		Code:      code,
		BirthDate: birth,
		Sex:       sex,
		Age:       age,
		Foreign:   code[0] == '7' || code[0] == '8',
	}
	if county, ok := CountyOf(code); ok {
		ident.County = &county
	}
	return ident, true
}

// Reason names the first rule a code breaks, in the order they are checked.
type Reason string

const (
	ReasonNone     Reason = ""
	ReasonLength   Reason = "length"
	ReasonNonDigit Reason = "non_digit"
	ReasonChecksum Reason = "checksum"
	ReasonCentury  Reason = "century"
	ReasonDate     Reason = "date"
)

// Diagnose explains why Decode would reject a code. It returns ReasonNone for
// codes Decode accepts. Callers that only need accept/reject use IsValid or
// Decode; this exists for user-facing correction hints.
func Diagnose(code string) Reason {
	if len(code) != Length {
		return ReasonLength
	}
	if _, ok := parseDigits(code); !ok {
		return ReasonNonDigit
	}
	if !IsValid(code) {
		return ReasonChecksum
	}
	if _, ok := centuryBase(int(code[0] - '0')); !ok {
		return ReasonCentury
	}
	if _, ok := BirthDate(code); !ok {
		return ReasonDate
	}
	return ReasonNone
}
