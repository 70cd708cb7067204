// Package jobs runs background work through Asynq backed by Redis.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/extraction"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/ledger"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeExtractionApply merges a document-extraction batch into a
	// period ledger.
	TaskTypeExtractionApply = "extraction:apply"
)

// ExtractionApplyPayload carries an extraction batch to the worker.
type ExtractionApplyPayload struct {
	CompanyID string           `json:"companyId"`
	PeriodID  string           `json:"periodId"`
	Batch     extraction.Batch `json:"batch"`
}

// NewExtractionApplyTask constructs an Asynq task.
func NewExtractionApplyTask(payload ExtractionApplyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeExtractionApply, data), nil
}

// HandleExtractionApplyTask processes TaskTypeExtractionApply tasks.
// Redelivery of an applied batch resolves as a no-op in the ledger, so
// at-least-once delivery is safe. Structurally invalid batches are not
// retried; they will never succeed.
func HandleExtractionApplyTask(svc *extraction.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ExtractionApplyPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		_, err := svc.Apply(ctx, payload.CompanyID, payload.PeriodID, payload.Batch)
		if err == nil {
			return nil
		}
		if errors.Is(err, ledger.ErrMissingEntryID) || errors.Is(err, ledger.ErrNegativeAmount) {
			logger.Error("extraction batch rejected",
				slog.String("batch_id", payload.Batch.BatchID),
				slog.Any("error", err),
			)
			return asynq.SkipRetry
		}
		return err
	}
}
