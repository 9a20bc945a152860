package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	residentmodels "carehub/internal/residents/models"
	residentservice "carehub/internal/residents/service"
	residentstore "carehub/internal/residents/store"
	"carehub/internal/roster/models"
	"carehub/internal/roster/parser"
	"carehub/internal/roster/service"
	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/platform/middleware/request"
	"carehub/pkg/requestcontext"
	"carehub/pkg/testutil"
)

type stubImportService struct {
	importFunc func(ctx context.Context, cmd service.ImportCommand) (*models.Report, error)
	got        *service.ImportCommand
}

func (s *stubImportService) Import(ctx context.Context, cmd service.ImportCommand) (*models.Report, error) {
	s.got = &cmd
	if s.importFunc != nil {
		return s.importFunc(ctx, cmd)
	}
	report := &models.Report{ImportID: testutil.TestIDs.ImportID1, TenantID: cmd.TenantID, Format: string(cmd.Format), AsOf: requestcontext.Now(ctx)}
	report.Tally()
	return report, nil
}

var requestTime = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

var importPath = "/tenants/" + testutil.TestIDs.TenantID1.String() + "/roster/import"

func serve(t *testing.T, svc Service, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Use(request.BodyLimit(1024))
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req = req.WithContext(requestcontext.WithTime(req.Context(), requestTime))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["error"]
}

func TestHandleImport_Options(t *testing.T) {
	t.Run("defaults to a dry run", func(t *testing.T) {
		svc := &stubImportService{}
		w := serve(t, svc, importPath, parser.MediaTypeCSV, "CNP\n1\n")

		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, svc.got.Commit)
		assert.Equal(t, DefaultKind, svc.got.Kind)
		assert.Equal(t, parser.FormatCSV, svc.got.Format)
		assert.Equal(t, testutil.TestIDs.TenantID1, svc.got.TenantID)
	})

	t.Run("commit with kind", func(t *testing.T) {
		svc := &stubImportService{}
		w := serve(t, svc, importPath+"?commit=true&kind=elder", parser.MediaTypeCSV, "CNP\n1\n")

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, svc.got.Commit)
		assert.Equal(t, residentmodels.KindElder, svc.got.Kind)
	})

	t.Run("octet stream with a zip signature is xlsx", func(t *testing.T) {
		svc := &stubImportService{}
		w := serve(t, svc, importPath, "", "PK\x03\x04rest")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, parser.FormatXLSX, svc.got.Format)
	})
}

func TestHandleImport_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		contentType string
		body        string
		wantStatus  int
		wantCode    string
	}{
		{"bad tenant", "/tenants/nope/roster/import", parser.MediaTypeCSV, "CNP\n", http.StatusBadRequest, "bad_request"},
		{"bad commit flag", importPath + "?commit=maybe", parser.MediaTypeCSV, "CNP\n", http.StatusBadRequest, "bad_request"},
		{"empty body", importPath, parser.MediaTypeCSV, "", http.StatusBadRequest, "bad_request"},
		{"unsupported type", importPath, "application/pdf", "%PDF", http.StatusUnsupportedMediaType, "unsupported_media_type"},
		{"over the body limit", importPath, parser.MediaTypeCSV, strings.Repeat("x", 2048), http.StatusRequestEntityTooLarge, "payload_too_large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubImportService{}
			w := serve(t, svc, tt.path, tt.contentType, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
			assert.Nil(t, svc.got)
		})
	}
}

func TestHandleImport_ServiceErrors(t *testing.T) {
	svc := &stubImportService{importFunc: func(context.Context, service.ImportCommand) (*models.Report, error) {
		return nil, dErrors.New(dErrors.CodeTooLarge, "roster exceeds 2000 rows")
	}}

	w := serve(t, svc, importPath, parser.MediaTypeCSV, "CNP\n1\n")

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "payload_too_large", errorCode(t, w))
}

func TestHandleImport_Report(t *testing.T) {
	residents := residentservice.New(residentstore.NewInMemory())
	svc := service.New(residents)
	ana := testutil.NewCNPBuilder().Born(2021, 3, 5).Female().Build()
	body := "Lista copii\n\nCNP;Nume;Prenume;Data nasterii\n" +
		ana + ";Pop;Ana;05.03.2021\n" +
		"1800101221145;Ionescu;Dan;01.01.1980\n"

	w := serve(t, svc, importPath+"?commit=1", "text/csv; charset=utf-8", body)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ImportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "csv", resp.Format)
	assert.Equal(t, 3, resp.HeaderLine)
	assert.Equal(t, "2026-10-19", resp.AsOf)
	assert.True(t, resp.Committed)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Valid)
	assert.Equal(t, 1, resp.Invalid)

	require.Len(t, resp.Rows, 2)
	first := resp.Rows[0]
	assert.Equal(t, 4, first.Line)
	assert.Equal(t, "Pop Ana", first.Name)
	assert.Equal(t, "*********"+ana[9:], first.CNP)
	assert.True(t, first.Committed)
	assert.NotEmpty(t, first.ResidentID)
	require.NotNil(t, first.Age)
	assert.Equal(t, 5, *first.Age)

	second := resp.Rows[1]
	assert.Equal(t, 5, second.Line)
	assert.False(t, second.Committed)
	assert.Equal(t, []string{"line 5: CNP *********1145 is invalid (control digit does not match)"}, second.Errors)

	onboarded, err := residents.List(context.Background(), testutil.TestIDs.TenantID1)
	require.NoError(t, err)
	assert.Len(t, onboarded, 1)
}
