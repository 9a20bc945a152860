package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carehub/internal/identity/models"
	"carehub/pkg/platform/httputil"
	"carehub/pkg/requestcontext"
)

// Service checks codes. Invalid codes come back as results; only malformed
// batches are errors.
type Service interface {
	Check(ctx context.Context, code string) models.CheckResult
	CheckBatch(ctx context.Context, codes []string) ([]models.CheckResult, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/identity/cnp/check", h.HandleCheck)
	r.Post("/identity/cnp/batch", h.HandleBatch)
}

// HandleCheck answers 200 for every well-formed request; an invalid code is
// reported with valid=false and a reason.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toCheckResponse(h.service.Check(ctx, req.CNP)))
}

// HandleBatch checks up to models.MaxBatchSize codes in one call.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	results, err := h.service.CheckBatch(ctx, req.CNPs)
	if err != nil {
		h.logger.WarnContext(ctx, "batch check failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toBatchResponse(req.CNPs, results))
}
