package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "carehub/pkg/domain-errors"
)

type lookupRequest struct {
	CNP   string `json:"cnp"`
	Group string `json:"group"`
}

// trimmingRequest records which preparation hooks ran.
type trimmingRequest struct {
	CNP        string `json:"cnp"`
	sanitized  bool
	normalized bool
}

func (r *trimmingRequest) Sanitize() {
	r.sanitized = true
	r.CNP = strings.TrimSpace(r.CNP)
}

func (r *trimmingRequest) Normalize() {
	r.normalized = true
	r.CNP = strings.ReplaceAll(r.CNP, "-", "")
}

func (r *trimmingRequest) Validate() error {
	if r.CNP == "" {
		return errors.New("cnp is required")
	}
	return nil
}

// codedRequest fails Validate with a domain error.
type codedRequest struct {
	ID string `json:"id"`
}

func (r *codedRequest) Validate() error {
	if r.ID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	return nil
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestDecodeJSON(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("successful decode", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"cnp":"1800101221144","group":"A"}`))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[lookupRequest](w, req, logger, ctx, "req-1")

		require.True(t, ok)
		assert.Equal(t, "1800101221144", result.CNP)
		assert.Equal(t, "A", result.Group)
	})

	t.Run("malformed JSON is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"cnp":`))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[lookupRequest](w, req, logger, ctx, "req-1")

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decodeError(t, w).Error)
	})

	t.Run("empty body is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		w := httptest.NewRecorder()

		_, ok := DecodeJSON[lookupRequest](w, req, logger, ctx, "req-1")

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("oversized body is 413", func(t *testing.T) {
		body := `{"cnp":"` + strings.Repeat("1", 64) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		w := httptest.NewRecorder()
		req.Body = http.MaxBytesReader(w, req.Body, 16)

		_, ok := DecodeJSON[lookupRequest](w, req, logger, ctx, "req-1")

		assert.False(t, ok)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "payload_too_large", decodeError(t, w).Error)
	})
}

func TestReadBody(t *testing.T) {
	t.Run("returns the body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("CNP;Nume\n"))
		data, err := ReadBody(req)
		require.NoError(t, err)
		assert.Equal(t, "CNP;Nume\n", string(data))
	})

	t.Run("limit exceeded maps to CodeTooLarge", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 100)))
		req.Body = http.MaxBytesReader(httptest.NewRecorder(), req.Body, 10)
		_, err := ReadBody(req)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTooLarge))
	})
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("runs every preparation hook in order", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"cnp":"  180-0101-221144 "}`))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[trimmingRequest](w, req, logger, ctx, "req-1")

		require.True(t, ok)
		assert.True(t, result.sanitized)
		assert.True(t, result.normalized)
		assert.Equal(t, "1800101221144", result.CNP)
	})

	t.Run("plain validation error becomes validation_error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"cnp":"   "}`))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[trimmingRequest](w, req, logger, ctx, "req-1")

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "validation_error", resp.Error)
		assert.Equal(t, "cnp is required", resp.ErrorDescription)
	})

	t.Run("domain error code from Validate is preserved", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":""}`))
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[codedRequest](w, req, logger, ctx, "req-1")

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decodeError(t, w).Error)
	})

	t.Run("types without hooks pass through", func(t *testing.T) {
		assert.NoError(t, PrepareRequest(&lookupRequest{}))
	})
}
