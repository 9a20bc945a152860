// Package parser reads institution rosters exported from SIIIR or kept by hand,
// as CSV or XLSX, into rows keyed by recognised column.
package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"mime"
	"strings"

	"github.com/xuri/excelize/v2"

	dErrors "carehub/pkg/domain-errors"
)

// Format is the encoding of an uploaded roster.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Media types accepted for roster uploads.
const (
	MediaTypeCSV         = "text/csv"
	MediaTypeXLSX        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MediaTypeOctetStream = "application/octet-stream"
)

var (
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
	zipMagic = []byte("PK\x03\x04")
)

// Row is one data row. Line is the 1-based line (CSV) or row number (XLSX) in
// the uploaded file. Values are trimmed but otherwise as typed.
type Row struct {
	Line      int
	CNP       string
	LastName  string
	FirstName string
	FullName  string
	BirthDate string
	Sex       string
	Group     string
}

// Name is FullName when the file has one, else "LastName FirstName".
func (r Row) Name() string {
	if r.FullName != "" {
		return r.FullName
	}
	return strings.TrimSpace(r.LastName + " " + r.FirstName)
}

// Result is a parsed roster.
type Result struct {
	Format     Format
	HeaderLine int
	Columns    []Column
	Rows       []Row
}

// DetectFormat picks the format from the request media type. Octet streams are
// sniffed: a zip container is XLSX, anything else is treated as CSV.
func DetectFormat(contentType string, data []byte) (Format, error) {
	mediaType := MediaTypeOctetStream
	if contentType != "" {
		mt, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return "", dErrors.New(dErrors.CodeUnsupportedMedia, "malformed Content-Type")
		}
		mediaType = mt
	}
	switch mediaType {
	case MediaTypeCSV:
		return FormatCSV, nil
	case MediaTypeXLSX:
		return FormatXLSX, nil
	case MediaTypeOctetStream:
		if bytes.HasPrefix(data, zipMagic) {
			return FormatXLSX, nil
		}
		return FormatCSV, nil
	default:
		return "", dErrors.Newf(dErrors.CodeUnsupportedMedia, "unsupported roster type %q", mediaType)
	}
}

// Parse reads data in the given format. More than maxRows data rows is a
// CodeTooLarge error; maxRows <= 0 disables the check.
func Parse(data []byte, format Format, maxRows int) (*Result, error) {
	var (
		records []record
		err     error
	)
	switch format {
	case FormatCSV:
		records, err = readCSV(data)
	case FormatXLSX:
		records, err = readXLSX(data)
	default:
		return nil, dErrors.Newf(dErrors.CodeUnsupportedMedia, "unsupported roster format %q", format)
	}
	if err != nil {
		return nil, err
	}
	res, err := fromRecords(records, maxRows)
	if err != nil {
		return nil, err
	}
	res.Format = format
	return res, nil
}

// record is a row of cells with its position in the file.
type record struct {
	line  int
	cells []string
}

func readCSV(data []byte) ([]record, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = DetectDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var out []record
	for {
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, dErrors.Newf(dErrors.CodeInvalidInput, "malformed CSV at line %d", parseErr.Line)
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed CSV")
		}
		line, _ := r.FieldPos(0)
		out = append(out, record{line: line, cells: cells})
	}
	return out, nil
}

// DetectDelimiter chooses between ';' and ',' by counting both in the first
// HeaderScanRows lines. Romanian spreadsheet exports default to ';'.
func DetectDelimiter(data []byte) rune {
	semicolons, commas := 0, 0
	for i, line := range bytes.SplitN(data, []byte("\n"), HeaderScanRows+1) {
		if i == HeaderScanRows {
			break
		}
		semicolons += bytes.Count(line, []byte(";"))
		commas += bytes.Count(line, []byte(","))
	}
	if commas > semicolons {
		return ','
	}
	return ';'
}

func readXLSX(data []byte) ([]record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "unreadable XLSX workbook")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "XLSX workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "unreadable XLSX sheet")
	}
	out := make([]record, 0, len(rows))
	for i, cells := range rows {
		out = append(out, record{line: i + 1, cells: cells})
	}
	return out, nil
}

func fromRecords(records []record, maxRows int) (*Result, error) {
	headerAt := -1
	var cols columnIndex
	for i := 0; i < len(records) && i < HeaderScanRows; i++ {
		if idx, ok := matchHeader(records[i].cells); ok {
			headerAt, cols = i, idx
			break
		}
	}
	if headerAt < 0 {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "no header row with a CNP column in the first %d rows", HeaderScanRows)
	}

	res := &Result{
		HeaderLine: records[headerAt].line,
		Columns:    cols.Columns(),
		Rows:       make([]Row, 0, len(records)-headerAt-1),
	}
	for _, rec := range records[headerAt+1:] {
		if isBlank(rec.cells) {
			continue
		}
		if maxRows > 0 && len(res.Rows) == maxRows {
			return nil, dErrors.Newf(dErrors.CodeTooLarge, "roster exceeds %d rows", maxRows)
		}
		res.Rows = append(res.Rows, Row{
			Line:      rec.line,
			CNP:       cols.value(rec.cells, ColumnCNP),
			LastName:  cols.value(rec.cells, ColumnLastName),
			FirstName: cols.value(rec.cells, ColumnFirstName),
			FullName:  cols.value(rec.cells, ColumnFullName),
			BirthDate: cols.value(rec.cells, ColumnBirthDate),
			Sex:       cols.value(rec.cells, ColumnSex),
			Group:     cols.value(rec.cells, ColumnGroup),
		})
	}
	return res, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
