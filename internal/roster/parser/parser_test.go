package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	dErrors "carehub/pkg/domain-errors"
)

func TestFoldHeader(t *testing.T) {
	tests := map[string]string{
		"CNP":                  "cnp",
		"Data nașterii":        "datanasterii",
		"Data naşterii":        "datanasterii",
		"Nume și prenume":      "numesiprenume",
		"  Grupa/Clasa  ":      "grupaclasa",
		"Formațiune de studiu": "formatiunedestudiu",
		"C.N.P.":               "cnp",
	}
	for in, want := range tests {
		assert.Equal(t, want, FoldHeader(in), in)
	}
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ';', DetectDelimiter([]byte("CNP;Nume;Prenume\n1;2;3\n")))
	assert.Equal(t, ',', DetectDelimiter([]byte("CNP,Nume,Prenume\n1,2,3\n")))
	assert.Equal(t, ';', DetectDelimiter([]byte("CNP\n1800101221144\n")), "single column defaults to ;")
	assert.Equal(t, ';', DetectDelimiter([]byte("CNP;Nume;Adresa\n1;Pop;\"Str. Lunga, nr. 3\"\n")))
}

func TestParseCSV(t *testing.T) {
	t.Run("title block, BOM, and semicolons", func(t *testing.T) {
		data := "\xEF\xBB\xBFLista copiilor înscriși;;;\n" +
			"Grădinița nr. 5;;;\n" +
			"\n" +
			"Nr.;C.N.P.;Nume;Prenume;Data nașterii;Sex;Grupa\n" +
			"1;1800101221144;Popescu;Ion;01.01.1980;M;Mare\n" +
			";;;;;;\n" +
			"2; 2950615400036 ;Ionescu;Maria;15.06.1995;F;Mica\n"

		res, err := Parse([]byte(data), FormatCSV, 0)

		require.NoError(t, err)
		assert.Equal(t, FormatCSV, res.Format)
		assert.Equal(t, 4, res.HeaderLine)
		assert.Equal(t, []Column{ColumnCNP, ColumnLastName, ColumnFirstName, ColumnBirthDate, ColumnSex, ColumnGroup}, res.Columns)
		require.Len(t, res.Rows, 2)
		assert.Equal(t, Row{Line: 5, CNP: "1800101221144", LastName: "Popescu", FirstName: "Ion", BirthDate: "01.01.1980", Sex: "M", Group: "Mare"}, res.Rows[0])
		assert.Equal(t, 7, res.Rows[1].Line)
		assert.Equal(t, "2950615400036", res.Rows[1].CNP)
		assert.Equal(t, "Ionescu Maria", res.Rows[1].Name())
	})

	t.Run("comma delimited with full name column", func(t *testing.T) {
		data := "Nume si prenume,CNP\n\"Dinu, Petre\",1800101221144\n"

		res, err := Parse([]byte(data), FormatCSV, 0)

		require.NoError(t, err)
		require.Len(t, res.Rows, 1)
		assert.Equal(t, "Dinu, Petre", res.Rows[0].Name())
		assert.Equal(t, 2, res.Rows[0].Line)
	})

	t.Run("short rows leave missing columns empty", func(t *testing.T) {
		res, err := Parse([]byte("CNP;Nume;Grupa\n1800101221144\n"), FormatCSV, 0)
		require.NoError(t, err)
		require.Len(t, res.Rows, 1)
		assert.Empty(t, res.Rows[0].Group)
	})

	t.Run("no CNP column", func(t *testing.T) {
		_, err := Parse([]byte("Nume;Prenume\nPop;Ana\n"), FormatCSV, 0)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("header below the scan window is not found", func(t *testing.T) {
		data := strings.Repeat("titlu;\n", HeaderScanRows) + "CNP;Nume\n1800101221144;Pop\n"
		_, err := Parse([]byte(data), FormatCSV, 0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("row limit", func(t *testing.T) {
		data := "CNP\n1\n2\n3\n"
		_, err := Parse([]byte(data), FormatCSV, 2)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTooLarge))

		res, err := Parse([]byte(data), FormatCSV, 3)
		require.NoError(t, err)
		assert.Len(t, res.Rows, 3)
	})
}

func buildXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseXLSX(t *testing.T) {
	t.Run("first sheet with title row", func(t *testing.T) {
		data := buildXLSX(t, [][]any{
			{"Situație școlară 2026"},
			{"CNP", "Nume", "Prenume", "Clasa"},
			{"1800101221144", "Popescu", "Ion", "a II-a"},
			{},
			{"2950615400036", "Ionescu", "Maria", "a III-a"},
		})

		res, err := Parse(data, FormatXLSX, 0)

		require.NoError(t, err)
		assert.Equal(t, FormatXLSX, res.Format)
		assert.Equal(t, 2, res.HeaderLine)
		require.Len(t, res.Rows, 2)
		assert.Equal(t, 3, res.Rows[0].Line)
		assert.Equal(t, "a II-a", res.Rows[0].Group)
		assert.Equal(t, 5, res.Rows[1].Line)
	})

	t.Run("garbage is invalid input", func(t *testing.T) {
		_, err := Parse([]byte("PK\x03\x04not really a zip"), FormatXLSX, 0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestDetectFormat(t *testing.T) {
	xlsx := buildXLSX(t, [][]any{{"CNP"}})

	tests := []struct {
		name        string
		contentType string
		data        []byte
		want        Format
		wantCode    dErrors.Code
	}{
		{"csv", "text/csv; charset=utf-8", nil, FormatCSV, ""},
		{"xlsx", MediaTypeXLSX, nil, FormatXLSX, ""},
		{"octet stream zip", MediaTypeOctetStream, xlsx, FormatXLSX, ""},
		{"octet stream text", MediaTypeOctetStream, []byte("CNP\n"), FormatCSV, ""},
		{"missing header sniffs", "", xlsx, FormatXLSX, ""},
		{"pdf", "application/pdf", nil, "", dErrors.CodeUnsupportedMedia},
		{"malformed", ";;", nil, "", dErrors.CodeUnsupportedMedia},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.contentType, tt.data)
			if tt.wantCode != "" {
				assert.True(t, dErrors.HasCode(err, tt.wantCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
