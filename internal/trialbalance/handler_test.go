package trialbalance

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/ledger"
)

func newTestHandlerRouter(repo Repository) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, newTestService(repo), nil)
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func postJournal(t *testing.T, router chi.Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/companies/co-1/periods/2025-06/journals", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestMergeJournalEndpointReturnsSnapshot(t *testing.T) {
	router := newTestHandlerRouter(newMemoryRepo())
	rr := postJournal(t, router, `{
		"date": "2025-06-30",
		"source": "manual_journal",
		"lines": [
			{"accountCode": "1100", "debit": 1200},
			{"accountCode": "4000", "credit": 1200}
		]
	}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp snapshotResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Summary.IsBalanced {
		t.Fatalf("expected balanced summary, got difference %v", resp.Summary.Difference)
	}
	if resp.Summary.Revenue != 1200 {
		t.Fatalf("expected revenue 1200, got %v", resp.Summary.Revenue)
	}
	if len(resp.Rows) != 2 {
		t.Fatalf("expected two rows, got %d", len(resp.Rows))
	}
}

func TestMergeJournalEndpointRejectsUnbalancedWithDifference(t *testing.T) {
	router := newTestHandlerRouter(newMemoryRepo())
	rr := postJournal(t, router, `{
		"date": "2025-06-30",
		"source": "manual_journal",
		"lines": [
			{"accountCode": "4000", "credit": 1000},
			{"accountCode": "5000", "debit": 900}
		]
	}`)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", rr.Code, rr.Body.String())
	}
	var problem map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &problem); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if problem["difference"] != float64(100) {
		t.Fatalf("expected difference 100 in problem, got %v", problem["difference"])
	}
}

func TestMergeJournalEndpointRejectsUnknownAccount(t *testing.T) {
	router := newTestHandlerRouter(newMemoryRepo())
	rr := postJournal(t, router, `{
		"date": "2025-06-30",
		"source": "manual_journal",
		"lines": [
			{"accountCode": "9000", "debit": 100},
			{"accountCode": "4000", "credit": 100}
		]
	}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "9000") {
		t.Fatalf("expected offending account code in problem, got %s", rr.Body.String())
	}
}

func TestMergeJournalEndpointRejectsBadSource(t *testing.T) {
	router := newTestHandlerRouter(newMemoryRepo())
	rr := postJournal(t, router, `{
		"date": "2025-06-30",
		"source": "spreadsheet",
		"lines": [{"accountCode": "4000", "credit": 100}]
	}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestGetTrialBalanceEndpoint(t *testing.T) {
	router := newTestHandlerRouter(newMemoryRepo())
	if rr := postJournal(t, router, `{
		"date": "2025-06-30",
		"source": "opening_balance",
		"lines": [
			{"accountCode": "1000", "debit": 5000},
			{"accountCode": "3000", "credit": 5000}
		]
	}`); rr.Code != http.StatusOK {
		t.Fatalf("seed merge failed: %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/companies/co-1/periods/2025-06/trial-balance", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp snapshotResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Summary.TotalDebits != 5000 || resp.Summary.TotalCredits != 5000 {
		t.Fatalf("expected totals 5000/5000, got %v/%v", resp.Summary.TotalDebits, resp.Summary.TotalCredits)
	}
}

func TestTrialBalanceEndpointRejectsBadPeriod(t *testing.T) {
	router := newTestHandlerRouter(newMemoryRepo())
	req := httptest.NewRequest(http.MethodGet, "/companies/co-1/periods/June-2025/trial-balance", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestLedgerTaxComputationEndpoint(t *testing.T) {
	router := newTestHandlerRouter(newMemoryRepo())
	if rr := postJournal(t, router, `{
		"date": "2025-06-30",
		"source": "manual_journal",
		"lines": [
			{"accountCode": "1100", "debit": 100000},
			{"accountCode": "4000", "credit": 100000}
		]
	}`); rr.Code != http.StatusOK {
		t.Fatalf("seed merge failed: %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/companies/co-1/periods/2025-06/tax-computation", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["corporationTaxDue"] != float64(22750) {
		t.Fatalf("expected tax due 22750, got %v", resp["corporationTaxDue"])
	}
}

func TestLedgerTaxComputationRefusesUnbalanced(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestHandlerRouter(repo)
	repo.states[stateKey("co-1", "2025-06")] = ledger.RestoreTrialBalance([]ledger.Row{
		{AccountCode: "4000", AccountName: "Turnover", Credit: decimal.NewFromInt(900), Source: ledger.SourceManualJournal},
	}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/companies/co-1/periods/2025-06/tax-computation", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "difference") {
		t.Fatalf("expected difference in problem, got %s", rr.Body.String())
	}
}
