package tax

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, nil)
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func TestComputeEndpointMarginalRelief(t *testing.T) {
	body := `{
		"turnover": 150000,
		"costOfSales": 30000,
		"operatingExpenses": 20000
	}`
	req := httptest.NewRequest(http.MethodPost, "/tax/computations", strings.NewReader(body))
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp ResultResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ChargeableProfits != 100000 {
		t.Fatalf("expected chargeable profits 100000, got %v", resp.ChargeableProfits)
	}
	if resp.CorporationTaxBeforeReliefs != 25000 {
		t.Fatalf("expected tax before reliefs 25000, got %v", resp.CorporationTaxBeforeReliefs)
	}
	if !resp.Breakdown.TaxCalculation.MarginalReliefApplied {
		t.Fatalf("expected marginal relief to apply")
	}
	if resp.Breakdown.TaxCalculation.MarginalReliefAmount != 2250 {
		t.Fatalf("expected marginal relief 2250, got %v", resp.Breakdown.TaxCalculation.MarginalReliefAmount)
	}
	if resp.CorporationTaxDue != 22750 {
		t.Fatalf("expected tax due 22750, got %v", resp.CorporationTaxDue)
	}
}

func TestComputeEndpointRejectsNegativeFigure(t *testing.T) {
	body := `{"turnover": -100}`
	req := httptest.NewRequest(http.MethodPost, "/tax/computations", strings.NewReader(body))
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestComputeEndpointRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/tax/computations", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}
