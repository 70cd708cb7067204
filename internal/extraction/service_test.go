package extraction

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/ledger"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/trialbalance"
)

type stubLedger struct {
	applied []ledger.DocumentExtraction
	result  trialbalance.MergeResult
	err     error
}

func (s *stubLedger) ApplyExtraction(ctx context.Context, companyID, periodID string, batch ledger.DocumentExtraction) (trialbalance.MergeResult, error) {
	s.applied = append(s.applied, batch)
	return s.result, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestApplyConvertsBatchToLedgerFigures(t *testing.T) {
	stub := &stubLedger{}
	svc := NewService(stub, discardLogger())

	batch := Batch{
		BatchID:                "docs-2025-06",
		Turnover:               120000,
		CostOfSales:            30000,
		AdministrativeExpenses: 18000,
		ProfessionalFees:       4500,
		OtherExpenses:          5000,
		OtherIncome:            0,
		ProcessedDocuments:     42,
	}
	if _, err := svc.Apply(context.Background(), "co-1", "2025-06", batch); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(stub.applied) != 1 {
		t.Fatalf("expected one ledger apply, got %d", len(stub.applied))
	}
	got := stub.applied[0]
	if got.BatchID != "docs-2025-06" {
		t.Fatalf("expected batch id carried through, got %q", got.BatchID)
	}
	if !got.Turnover.Equal(decimal.NewFromInt(120000)) {
		t.Fatalf("expected turnover 120000, got %s", got.Turnover)
	}
	if !got.ProfessionalFees.Equal(decimal.NewFromInt(4500)) {
		t.Fatalf("expected professional fees 4500, got %s", got.ProfessionalFees)
	}
	if got.ProcessedDocuments != 42 {
		t.Fatalf("expected 42 processed documents, got %d", got.ProcessedDocuments)
	}
}

func TestApplyReportsDuplicateBatch(t *testing.T) {
	stub := &stubLedger{result: trialbalance.MergeResult{Duplicate: true}}
	svc := NewService(stub, discardLogger())

	result, err := svc.Apply(context.Background(), "co-1", "2025-06", Batch{BatchID: "docs-2025-06"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !result.Duplicate {
		t.Fatalf("expected duplicate flag on replayed batch")
	}
}
