// Package cnp validates Romanian personal numeric codes (CNP) and derives the
// birth date, sex, age, and county they encode.
//
// Domain Purity: every function here is a pure computation over its arguments.
// Nothing reads the clock except AgeToday, and nothing returns an error or panics
// on malformed input. Absence is reported with the comma-ok idiom so bulk callers
// can loop over thousands of rows without per-row error plumbing.
package cnp

import (
	"strings"
	"time"

	"carehub/pkg/domain"
)

// Length is the number of digits in a CNP.
const Length = 13

// weights are applied to the first 12 digits; the 13th is the control digit.
var weights = [Length - 1]int{2, 7, 9, 1, 4, 6, 3, 5, 8, 2, 7, 9}

// Sex is the sex encoded by the century digit.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Date holds the literal calendar fields encoded in a CNP.
// No time zone is attached; Time renders it as UTC midnight.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Time converts the date to midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format(time.DateOnly)
}

// IsValid reports whether code is 13 decimal digits whose last digit matches the
// weighted MOD 11 control digit. The century digit is not constrained here.
func IsValid(code string) bool {
	digits, ok := parseDigits(code)
	if !ok {
		return false
	}
	return control(digits) == digits[Length-1]
}

// CheckDigit returns the control digit for the 12 leading digits of a code.
func CheckDigit(prefix string) (int, bool) {
	if len(prefix) != Length-1 {
		return 0, false
	}
	var digits [Length]int
	for i := 0; i < Length-1; i++ {
		c := prefix[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		digits[i] = int(c - '0')
	}
	return control(digits), true
}

// BirthDate returns the birth date encoded in a valid code. It reports false for
// codes failing the checksum, for century digits 0 and 9, and for month/day pairs
// that do not exist in the calendar.
func BirthDate(code string) (Date, bool) {
	digits, ok := parseDigits(code)
	if !ok || control(digits) != digits[Length-1] {
		return Date{}, false
	}
	base, ok := centuryBase(digits[0])
	if !ok {
		return Date{}, false
	}
	d := Date{
		Year:  base + digits[1]*10 + digits[2],
		Month: digits[3]*10 + digits[4],
		Day:   digits[5]*10 + digits[6],
	}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > daysIn(d.Year, d.Month) {
		return Date{}, false
	}
	return d, true
}

// SexOf returns the sex encoded by the century digit of a valid code.
// Odd digits 1, 3, 5, 7 are male; even digits 2, 4, 6, 8 are female.
func SexOf(code string) (Sex, bool) {
	if !IsValid(code) {
		return "", false
	}
	switch code[0] {
	case '1', '3', '5', '7':
		return SexMale, true
	case '2', '4', '6', '8':
		return SexFemale, true
	default:
		return "", false
	}
}

// Age returns the whole years elapsed between the encoded birth date and asOf.
// Only the calendar date of asOf is used; the year is decremented when the
// birthday has not yet occurred in asOf's year.
func Age(code string, asOf time.Time) (int, bool) {
	birth, ok := BirthDate(code)
	if !ok {
		return 0, false
	}
	return domain.YearsBetween(birth.Year, birth.Month, birth.Day, asOf), true
}

// AgeToday is Age evaluated against the current local date.
func AgeToday(code string) (int, bool) {
	return Age(code, time.Now())
}

// IsForeign reports whether a valid code uses a foreign-resident century digit (7 or 8).
func IsForeign(code string) bool {
	return IsValid(code) && (code[0] == '7' || code[0] == '8')
}

// Normalize strips the separators people commonly type into codes (spaces, dashes,
// dots, underscores). Validation never calls it; callers pre-clean explicitly.
func Normalize(raw string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '.', '_', '\u00a0':
			return -1
		}
		return r
	}, raw)
}

// Redact keeps the last 4 characters so logs can correlate rows without the full code.
func Redact(code string) string {
	if len(code) <= 4 {
		return "****"
	}
	return "*********" + code[len(code)-4:]
}

func parseDigits(code string) ([Length]int, bool) {
	var digits [Length]int
	if len(code) != Length {
		return digits, false
	}
	for i := 0; i < Length; i++ {
		c := code[i]
		if c < '0' || c > '9' {
			return digits, false
		}
		digits[i] = int(c - '0')
	}
	return digits, true
}

func control(digits [Length]int) int {
	sum := 0
	for i, w := range weights {
		sum += digits[i] * w
	}
	c := sum % 11
	if c == 10 {
		c = 1
	}
	return c
}

func centuryBase(digit int) (int, bool) {
	switch digit {
	case 1, 2, 7, 8:
		return 1900, true
	case 3, 4:
		return 1800, true
	case 5, 6:
		return 2000, true
	default:
		return 0, false
	}
}

func daysIn(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
