package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"

	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/extraction"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/ledger"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/trialbalance"
)

type stubLedger struct {
	batches []ledger.DocumentExtraction
	err     error
}

func (s *stubLedger) ApplyExtraction(ctx context.Context, companyID, periodID string, batch ledger.DocumentExtraction) (trialbalance.MergeResult, error) {
	s.batches = append(s.batches, batch)
	return trialbalance.MergeResult{}, s.err
}

func testHandler(stub *stubLedger) asynq.HandlerFunc {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return HandleExtractionApplyTask(extraction.NewService(stub, logger), logger)
}

func TestExtractionApplyTaskRoundTrip(t *testing.T) {
	task, err := NewExtractionApplyTask(ExtractionApplyPayload{
		CompanyID: "co-1",
		PeriodID:  "2025-06",
		Batch:     extraction.Batch{BatchID: "docs-2025-06", Turnover: 500},
	})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if task.Type() != TaskTypeExtractionApply {
		t.Fatalf("unexpected task type %q", task.Type())
	}

	stub := &stubLedger{}
	if err := testHandler(stub)(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(stub.batches) != 1 || stub.batches[0].BatchID != "docs-2025-06" {
		t.Fatalf("expected batch applied once, got %+v", stub.batches)
	}
}

func TestExtractionApplySkipsRetryOnBadPayload(t *testing.T) {
	task := asynq.NewTask(TaskTypeExtractionApply, []byte("{"))
	err := testHandler(&stubLedger{})(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

func TestExtractionApplySkipsRetryOnStructuralRejection(t *testing.T) {
	task, err := NewExtractionApplyTask(ExtractionApplyPayload{
		CompanyID: "co-1",
		PeriodID:  "2025-06",
		Batch:     extraction.Batch{},
	})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	stub := &stubLedger{err: ledger.ErrMissingEntryID}
	if err := testHandler(stub)(context.Background(), task); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

func TestExtractionApplyRetriesTransientFailure(t *testing.T) {
	task, err := NewExtractionApplyTask(ExtractionApplyPayload{
		CompanyID: "co-1",
		PeriodID:  "2025-06",
		Batch:     extraction.Batch{BatchID: "b1"},
	})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	transient := errors.New("connection reset")
	stub := &stubLedger{err: transient}
	if err := testHandler(stub)(context.Background(), task); !errors.Is(err, transient) {
		t.Fatalf("expected transient error surfaced for retry, got %v", err)
	}
}
