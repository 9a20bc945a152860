package domain

import "time"

// YearsBetween returns the completed years between a calendar birth date and the
// calendar date of asOf (in asOf's own location). The count drops by one while the
// (month, day) anniversary is still ahead in asOf's year, so the anniversary itself
// counts as a completed year. A Feb 29 birth completes its year on Mar 1 in
// non-leap years.
//
// Example:
//
//	asOf := time.Date(2024, 4, 15, 9, 0, 0, 0, time.UTC)
//	YearsBetween(2020, 4, 15, asOf) // returns 4
//	YearsBetween(2020, 4, 16, asOf) // returns 3
func YearsBetween(birthYear, birthMonth, birthDay int, asOf time.Time) int {
	y, m, d := asOf.Date()
	years := y - birthYear
	if int(m) < birthMonth || (int(m) == birthMonth && d < birthDay) {
		years--
	}
	return years
}

// AdultAge is the age of majority in Romania.
const AdultAge = 18

// IsAdult reports whether someone born on the given calendar date has reached
// AdultAge on the calendar date of asOf.
func IsAdult(birthYear, birthMonth, birthDay int, asOf time.Time) bool {
	return YearsBetween(birthYear, birthMonth, birthDay, asOf) >= AdultAge
}
