package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carehub/internal/residents/models"
	"carehub/internal/residents/service"
	"carehub/pkg/domain"
	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/platform/httputil"
	"carehub/pkg/requestcontext"
)

// Service defines the resident operations the handler needs.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Create(ctx context.Context, cmd service.CreateCommand) (*models.Resident, error)
	Get(ctx context.Context, tenantID domain.TenantID, residentID domain.ResidentID) (*models.Resident, error)
	List(ctx context.Context, tenantID domain.TenantID) ([]*models.Resident, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/tenants/{tenantID}/residents", h.HandleCreate)
	r.Get("/tenants/{tenantID}/residents", h.HandleList)
	r.Get("/tenants/{tenantID}/residents/{residentID}", h.HandleGet)
}

// HandleCreate onboards a resident.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateResidentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resident, err := h.service.Create(ctx, service.CreateCommand{
		TenantID: tenantID,
		FullName: req.FullName,
		CNP:      req.CNP,
		Kind:     req.kind(),
		Group:    req.Group,
	})
	if err != nil {
		h.logFailure(ctx, "create resident failed", err, requestID, tenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toResidentResponse(resident, requestcontext.Now(ctx)))
}

// HandleGet returns one resident with the age as of the request time.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	residentID, err := domain.ParseResidentID(chi.URLParam(r, "residentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resident, err := h.service.Get(ctx, tenantID, residentID)
	if err != nil {
		h.logFailure(ctx, "get resident failed", err, requestID, tenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResidentResponse(resident, requestcontext.Now(ctx)))
}

// HandleList returns every resident of a tenant.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	list, err := h.service.List(ctx, tenantID)
	if err != nil {
		h.logFailure(ctx, "list residents failed", err, requestID, tenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResidentListResponse(list, requestcontext.Now(ctx)))
}

// logFailure logs server faults at error level and client mistakes at warn.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, requestID string, tenantID domain.TenantID) {
	level := slog.LevelWarn
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg, "error", err, "request_id", requestID, "tenant_id", tenantID.String())
}
