package tax

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/observability"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/platform/httpx"
)

// Handler wires the standalone computation endpoint for callers that
// hold the CT600 figures themselves rather than a ledger.
type Handler struct {
	logger    *slog.Logger
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		metrics:   metrics,
		validator: validator.New(),
	}
}

// MountRoutes registers the tax routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/tax/computations", h.Compute)
}

// Compute runs a Corporation Tax computation on the posted figures.
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Request", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	result, err := Compute(req.ToInput())
	if err != nil {
		var invalid *InvalidInputError
		if errors.As(err, &invalid) {
			httpx.ProblemWith(w, http.StatusBadRequest, "Validation Failed", err.Error(), map[string]any{
				"field": invalid.Field,
			})
			return
		}
		h.logger.Error("tax computation failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.metrics.RecordTaxComputation(Band(result))
	httpx.JSON(w, http.StatusOK, ToResultResponse(result))
}
