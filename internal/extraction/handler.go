package extraction

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/platform/httpx"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/shared"
)

// Enqueuer submits an apply task for background processing.
type Enqueuer interface {
	EnqueueExtractionApply(ctx context.Context, companyID, periodID string, batch Batch) error
}

// batchRequest wraps a Batch with the period it targets.
type batchRequest struct {
	CompanyID string `json:"companyId" validate:"required"`
	PeriodID  string `json:"periodId" validate:"required"`
	Batch
}

// Handler accepts extraction batches over HTTP and queues them.
type Handler struct {
	logger    *slog.Logger
	enqueuer  Enqueuer
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, enqueuer Enqueuer) *Handler {
	return &Handler{
		logger:    logger,
		enqueuer:  enqueuer,
		validator: validator.New(),
	}
}

// MountRoutes registers the extraction routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/extraction/batches", h.SubmitBatch)
}

// SubmitBatch validates the batch and queues it for the worker. The
// merge itself happens asynchronously; replays are resolved there.
func (h *Handler) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Request", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if _, _, err := shared.ParsePeriod(req.PeriodID); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.enqueuer.EnqueueExtractionApply(r.Context(), req.CompanyID, req.PeriodID, req.Batch); err != nil {
		h.logger.Error("enqueue extraction batch", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Queue Unavailable", "batch could not be queued")
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]any{
		"batchId": req.BatchID,
		"status":  "queued",
	})
}
