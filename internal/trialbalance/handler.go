package trialbalance

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/ledger"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/observability"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/platform/httpx"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/shared"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/tax"
)

// Handler wires the trial balance HTTP endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		metrics:   metrics,
		validator: validator.New(),
	}
}

// MountRoutes registers the ledger routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/companies/{companyID}/periods/{periodID}/journals", h.MergeJournal)
	r.Get("/companies/{companyID}/periods/{periodID}/trial-balance", h.GetTrialBalance)
	r.Post("/companies/{companyID}/periods/{periodID}/tax-computation", h.ComputeTax)
}

// MergeJournal validates and merges a journal entry into the period
// ledger, returning the updated snapshot or the rejection with the
// exact numeric difference.
func (h *Handler) MergeJournal(w http.ResponseWriter, r *http.Request) {
	companyID, periodID, ok := h.pathKeys(w, r)
	if !ok {
		return
	}
	var req journalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Request", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	entry, source, err := req.toEntry()
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Request", err.Error())
		return
	}

	result, err := h.service.MergeJournal(r.Context(), companyID, periodID, entry, source)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	if result.Duplicate {
		h.metrics.RecordMerge(observability.MergeOutcomeDuplicate)
	} else {
		h.metrics.RecordMerge(observability.MergeOutcomeApplied)
	}
	httpx.JSON(w, http.StatusOK, toSnapshotResponse(result.Snapshot, result.Duplicate))
}

// GetTrialBalance returns the current ledger snapshot with the balance
// gate and difference.
func (h *Handler) GetTrialBalance(w http.ResponseWriter, r *http.Request) {
	companyID, periodID, ok := h.pathKeys(w, r)
	if !ok {
		return
	}
	snap, err := h.service.GetTrialBalance(r.Context(), companyID, periodID)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toSnapshotResponse(snap, false))
}

// ComputeTax derives a Corporation Tax computation from the period
// ledger plus caller-supplied adjustments.
func (h *Handler) ComputeTax(w http.ResponseWriter, r *http.Request) {
	companyID, periodID, ok := h.pathKeys(w, r)
	if !ok {
		return
	}
	var req tax.AdjustmentsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Request", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	result, err := h.service.ComputeTax(r.Context(), companyID, periodID, req.ToAdjustments())
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	h.metrics.RecordTaxComputation(tax.Band(result))
	httpx.JSON(w, http.StatusOK, tax.ToResultResponse(result))
}

func (h *Handler) pathKeys(w http.ResponseWriter, r *http.Request) (companyID, periodID string, ok bool) {
	companyID = chi.URLParam(r, "companyID")
	periodID = chi.URLParam(r, "periodID")
	if companyID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "company id required")
		return "", "", false
	}
	if _, _, err := shared.ParsePeriod(periodID); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return "", "", false
	}
	return companyID, periodID, true
}

func (h *Handler) respondLedgerError(w http.ResponseWriter, err error) {
	var (
		balErr     *ledger.BalanceError
		unknownErr *ledger.UnknownAccountError
		unbalErr   *ledger.UnbalancedError
	)
	switch {
	case errors.As(err, &balErr):
		h.metrics.RecordMerge(observability.MergeOutcomeRejected)
		httpx.ProblemWith(w, http.StatusUnprocessableEntity, "Journal Entry Does Not Balance", err.Error(), map[string]any{
			"debitTotal":  toFloat(balErr.DebitTotal),
			"creditTotal": toFloat(balErr.CreditTotal),
			"difference":  toFloat(balErr.Difference),
		})
	case errors.As(err, &unknownErr):
		h.metrics.RecordMerge(observability.MergeOutcomeRejected)
		httpx.ProblemWith(w, http.StatusBadRequest, "Unknown Account Code", err.Error(), map[string]any{
			"accountCode": unknownErr.Code,
		})
	case errors.As(err, &unbalErr):
		h.metrics.RecordMerge(observability.MergeOutcomeUnbalanced)
		httpx.ProblemWith(w, http.StatusConflict, "Trial Balance Out Of Balance", err.Error(), map[string]any{
			"difference": toFloat(unbalErr.Difference),
		})
	case errors.Is(err, ledger.ErrEmptyEntry),
		errors.Is(err, ledger.ErrMissingAccountCode),
		errors.Is(err, ledger.ErrNegativeAmount),
		errors.Is(err, ledger.ErrMissingEntryID),
		errors.Is(err, ledger.ErrInvalidSource):
		h.metrics.RecordMerge(observability.MergeOutcomeRejected)
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("ledger request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
