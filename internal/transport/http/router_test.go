package httptransport

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identityhandler "carehub/internal/identity/handler"
	identityservice "carehub/internal/identity/service"
	"carehub/internal/platform/health"
	residenthandler "carehub/internal/residents/handler"
	residentservice "carehub/internal/residents/service"
	residentstore "carehub/internal/residents/store"
	rosterhandler "carehub/internal/roster/handler"
	rosterservice "carehub/internal/roster/service"
	"carehub/pkg/platform/middleware/request"
	"carehub/pkg/platform/middleware/requesttime"
	"carehub/pkg/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	residents := residentservice.New(residentstore.NewInMemory())

	return NewRouter(Routes{
		Health: health.New("test"),
		JSON: []Registrar{
			identityhandler.New(identityservice.New(), logger),
			residenthandler.New(residents, logger),
		},
		Roster:      rosterhandler.New(rosterservice.New(residents), logger),
		RosterMedia: rosterhandler.MediaTypes,
		Metrics:     reg,
	}, Limits{
		RequestTimeout: 5 * time.Second,
		MaxBodyBytes:   256,
		ImportMaxBytes: 4096,
	}, request.NewMetrics(reg), logger)
}

func do(t *testing.T, h http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t)
	valid := testutil.NewCNPBuilder().Build()
	rosterPath := "/tenants/" + testutil.TestIDs.TenantID1.String() + "/roster/import"

	t.Run("liveness", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/health/live", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("cnp check", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/identity/cnp/check", "application/json", `{"cnp":"`+valid+`"}`)
		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["valid"])
	})

	t.Run("as-of header pins the reference date", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/identity/cnp/check", strings.NewReader(`{"cnp":"`+valid+`"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(requesttime.HeaderAsOf, "2026-09-14")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, float64(6), resp["age"])
	})

	t.Run("json routes reject other media types", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/identity/cnp/check", "text/csv", "x")
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("json body limit", func(t *testing.T) {
		body := `{"cnp":"` + strings.Repeat("1", 300) + `"}`
		w := do(t, router, http.MethodPost, "/identity/cnp/check", "application/json", body)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("roster accepts uploads larger than the json limit", func(t *testing.T) {
		body := "CNP;Nume;Prenume;Grupa\n" + valid + ";" + strings.Repeat("A", 300) + ";Ion;Mica\n"
		w := do(t, router, http.MethodPost, rosterPath, "text/csv", body)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"valid":1`)
	})

	t.Run("roster rejects json", func(t *testing.T) {
		w := do(t, router, http.MethodPost, rosterPath, "application/json", "{}")
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/metrics", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "carehub_http_request_duration_seconds")
		assert.Contains(t, w.Body.String(), `route="/identity/cnp/check"`)
	})
}
