package extraction

import (
	"context"
	"log/slog"

	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/ledger"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/trialbalance"
)

// Ledger is the slice of the trial balance service the applier needs.
type Ledger interface {
	ApplyExtraction(ctx context.Context, companyID, periodID string, batch ledger.DocumentExtraction) (trialbalance.MergeResult, error)
}

// Service applies extraction batches to period ledgers.
type Service struct {
	ledger Ledger
	logger *slog.Logger
}

// NewService constructs a Service instance.
func NewService(l Ledger, logger *slog.Logger) *Service {
	return &Service{ledger: l, logger: logger}
}

// Apply merges the batch into the period ledger. Redelivery of a known
// batch ID resolves as a no-op with the current snapshot.
func (s *Service) Apply(ctx context.Context, companyID, periodID string, batch Batch) (trialbalance.MergeResult, error) {
	result, err := s.ledger.ApplyExtraction(ctx, companyID, periodID, batch.ToDocumentExtraction())
	if err != nil {
		return trialbalance.MergeResult{}, err
	}
	s.logger.Info("extraction batch applied",
		slog.String("company_id", companyID),
		slog.String("period_id", periodID),
		slog.String("batch_id", batch.BatchID),
		slog.Int("processed_documents", batch.ProcessedDocuments),
		slog.Bool("duplicate", result.Duplicate),
	)
	return result, nil
}
