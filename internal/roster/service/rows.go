package service

import (
	"fmt"
	"strings"
	"time"

	"carehub/internal/roster/models"
	"carehub/internal/roster/parser"
	"carehub/pkg/cnp"
)

// declaredDateLayouts are the birth date spellings seen in SIIIR exports and
// hand-kept registers.
var declaredDateLayouts = []string{
	"02.01.2006",
	"2.1.2006",
	time.DateOnly,
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
}

func parseDeclaredDate(s string) (cnp.Date, bool) {
	for _, layout := range declaredDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return cnp.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, true
		}
	}
	return cnp.Date{}, false
}

func parseDeclaredSex(s string) (cnp.Sex, bool) {
	switch parser.FoldHeader(s) {
	case "m", "masculin", "male", "b", "baiat", "barbat":
		return cnp.SexMale, true
	case "f", "feminin", "female", "fata", "femeie":
		return cnp.SexFemale, true
	}
	return "", false
}

// validateRow checks one row in isolation. Duplicate detection needs the whole
// file and happens afterwards.
func validateRow(row parser.Row, asOf time.Time) (models.RowResult, string) {
	code := cnp.Normalize(row.CNP)
	res := models.RowResult{
		Line:  row.Line,
		CNP:   cnp.Redact(code),
		Name:  row.Name(),
		Group: row.Group,
	}
	addErr := func(format string, args ...any) {
		res.Errors = append(res.Errors, lineError(row.Line, format, args...))
	}

	if res.Name == "" {
		addErr("name is missing")
	}

	var ident cnp.Identity
	decoded := false
	if code == "" {
		addErr("CNP is missing")
	} else if ident, decoded = cnp.Decode(code, asOf); !decoded {
		addErr("CNP %s is invalid (%s)", res.CNP, describe(cnp.Diagnose(code)))
	}

	if decoded {
		res.BirthDate = ident.BirthDate.String()
		res.Sex = string(ident.Sex)
		age := ident.Age
		res.Age = &age

		if declared := strings.TrimSpace(row.BirthDate); declared != "" {
			if d, ok := parseDeclaredDate(declared); !ok {
				addErr("birth date %q is not a recognised date", declared)
			} else if d != ident.BirthDate {
				addErr("declared birth date %s does not match CNP birth date %s", d, ident.BirthDate)
			}
		}
		if declared := strings.TrimSpace(row.Sex); declared != "" {
			if sex, ok := parseDeclaredSex(declared); !ok {
				addErr("sex %q is not recognised", declared)
			} else if sex != ident.Sex {
				addErr("declared sex %s does not match CNP sex %s", sex, ident.Sex)
			}
		}
		if ident.Age < 0 {
			addErr("CNP birth date %s is in the future", ident.BirthDate)
		}
	}

	res.Valid = len(res.Errors) == 0
	if !decoded {
		return res, ""
	}
	return res, code
}

func describe(reason cnp.Reason) string {
	switch reason {
	case cnp.ReasonLength:
		return "must have 13 digits"
	case cnp.ReasonNonDigit:
		return "must contain digits only"
	case cnp.ReasonChecksum:
		return "control digit does not match"
	case cnp.ReasonCentury:
		return "first digit does not encode a century"
	case cnp.ReasonDate:
		return "encodes an impossible date"
	default:
		return string(reason)
	}
}

// flagDuplicates marks every repeat of a code after its first occurrence.
// codes[i] is the normalized code of results[i], or "" when it did not decode.
func flagDuplicates(results []models.RowResult, codes []string) {
	firstLine := make(map[string]int, len(codes))
	for i, code := range codes {
		if code == "" {
			continue
		}
		if line, seen := firstLine[code]; seen {
			results[i].Errors = append(results[i].Errors, lineError(results[i].Line, "CNP duplicates line %d", line))
			results[i].Valid = false
			continue
		}
		firstLine[code] = results[i].Line
	}
}

// lineError prefixes a message with the 1-based line it refers to.
func lineError(line int, format string, args ...any) string {
	return fmt.Sprintf("line %d: ", line) + fmt.Sprintf(format, args...)
}
