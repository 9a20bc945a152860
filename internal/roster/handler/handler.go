// Package handler exposes roster imports over HTTP. The upload is the raw
// request body; its format comes from Content-Type or the file signature.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	residentmodels "carehub/internal/residents/models"
	"carehub/internal/roster/models"
	"carehub/internal/roster/parser"
	"carehub/internal/roster/service"
	"carehub/pkg/domain"
	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/platform/httputil"
	"carehub/pkg/requestcontext"
)

// DefaultKind is the resident kind used for commits without ?kind=.
const DefaultKind = residentmodels.KindChild

// MediaTypes lists the Content-Types the import route accepts.
var MediaTypes = []string{parser.MediaTypeCSV, parser.MediaTypeXLSX, parser.MediaTypeOctetStream}

type Service interface {
	Import(ctx context.Context, cmd service.ImportCommand) (*models.Report, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/tenants/{tenantID}/roster/import", h.HandleImport)
}

// HandleImport validates an uploaded roster and, with ?commit=true, onboards
// its valid rows. Row problems come back in the report with a 200.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	commit, kind, err := importOptions(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	data, err := httputil.ReadBody(r)
	if err != nil {
		h.logFailure(ctx, "read roster failed", err, requestID, tenantID)
		httputil.WriteError(w, err)
		return
	}
	if len(data) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "roster file is empty"))
		return
	}

	format, err := parser.DetectFormat(r.Header.Get("Content-Type"), data)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	report, err := h.service.Import(ctx, service.ImportCommand{
		TenantID: tenantID,
		Format:   format,
		Data:     data,
		Commit:   commit,
		Kind:     kind,
	})
	if err != nil {
		h.logFailure(ctx, "roster import failed", err, requestID, tenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toImportResponse(report))
}

func importOptions(r *http.Request) (bool, residentmodels.Kind, error) {
	q := r.URL.Query()
	commit := false
	if raw := q.Get("commit"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return false, "", dErrors.Newf(dErrors.CodeBadRequest, "commit must be true or false, got %q", raw)
		}
		commit = v
	}
	kind := DefaultKind
	if raw := q.Get("kind"); raw != "" {
		kind = residentmodels.Kind(raw)
	}
	return commit, kind, nil
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error, requestID string, tenantID domain.TenantID) {
	level := slog.LevelWarn
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg, "error", err, "request_id", requestID, "tenant_id", tenantID.String())
}
