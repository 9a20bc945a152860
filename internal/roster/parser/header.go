package parser

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// HeaderScanRows is how many leading rows are searched for the header.
// SIIIR exports put a title block above the table.
const HeaderScanRows = 10

// Column identifies a roster field.
type Column string

const (
	ColumnCNP       Column = "cnp"
	ColumnLastName  Column = "last_name"
	ColumnFirstName Column = "first_name"
	ColumnFullName  Column = "full_name"
	ColumnBirthDate Column = "birth_date"
	ColumnSex       Column = "sex"
	ColumnGroup     Column = "group"
)

// aliases are keyed by folded header text: lower case, no diacritics, letters
// and digits only.
var aliases = map[string]Column{
	"cnp":                ColumnCNP,
	"codnumericpersonal": ColumnCNP,
	"cnpelev":            ColumnCNP,
	"cnpcopil":           ColumnCNP,
	"nume":               ColumnLastName,
	"numefamilie":        ColumnLastName,
	"numedefamilie":      ColumnLastName,
	"lastname":           ColumnLastName,
	"surname":            ColumnLastName,
	"prenume":            ColumnFirstName,
	"firstname":          ColumnFirstName,
	"numesiprenume":      ColumnFullName,
	"numeprenume":        ColumnFullName,
	"fullname":           ColumnFullName,
	"datanasterii":       ColumnBirthDate,
	"datanastere":        ColumnBirthDate,
	"birthdate":          ColumnBirthDate,
	"dateofbirth":        ColumnBirthDate,
	"sex":                ColumnSex,
	"gen":                ColumnSex,
	"gender":             ColumnSex,
	"grupa":              ColumnGroup,
	"clasa":              ColumnGroup,
	"formatiunedestudiu": ColumnGroup,
	"group":              ColumnGroup,
	"class":              ColumnGroup,
}

// FoldHeader lower-cases s, strips diacritics (including the comma-below and
// cedilla forms of ș and ț), and drops everything but letters and digits.
func FoldHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// columnIndex maps each recognised column to its position in a header row.
// The first occurrence of a column wins.
type columnIndex map[Column]int

func matchHeader(record []string) (columnIndex, bool) {
	idx := make(columnIndex)
	for i, cell := range record {
		col, ok := aliases[FoldHeader(cell)]
		if !ok {
			continue
		}
		if _, seen := idx[col]; !seen {
			idx[col] = i
		}
	}
	_, hasCNP := idx[ColumnCNP]
	return idx, hasCNP
}

func (c columnIndex) value(record []string, col Column) string {
	i, ok := c[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// Columns lists the recognised columns in a stable order.
func (c columnIndex) Columns() []Column {
	out := make([]Column, 0, len(c))
	for _, col := range []Column{ColumnCNP, ColumnLastName, ColumnFirstName, ColumnFullName, ColumnBirthDate, ColumnSex, ColumnGroup} {
		if _, ok := c[col]; ok {
			out = append(out, col)
		}
	}
	return out
}
