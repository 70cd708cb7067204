// Package extraction accepts AI document-extraction batches and applies
// them to the period ledger as synthetic single-sided entries.
package extraction

import (
	"github.com/shopspring/decimal"

	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/ledger"
)

// Batch is the flat per-period record delivered by the document
// pipeline. BatchID is the caller-supplied stable identifier that keys
// replay detection.
type Batch struct {
	BatchID                string  `json:"batchId" validate:"required"`
	Turnover               float64 `json:"turnover" validate:"gte=0"`
	OtherIncome            float64 `json:"otherIncome" validate:"gte=0"`
	CostOfSales            float64 `json:"costOfSales" validate:"gte=0"`
	AdministrativeExpenses float64 `json:"administrativeExpenses" validate:"gte=0"`
	ProfessionalFees       float64 `json:"professionalFees" validate:"gte=0"`
	OtherExpenses          float64 `json:"otherExpenses" validate:"gte=0"`
	ProcessedDocuments     int     `json:"processedDocuments" validate:"gte=0"`
}

// ToDocumentExtraction converts the batch for the ledger bulk path.
func (b Batch) ToDocumentExtraction() ledger.DocumentExtraction {
	return ledger.DocumentExtraction{
		BatchID:                b.BatchID,
		Turnover:               decimal.NewFromFloat(b.Turnover),
		OtherIncome:            decimal.NewFromFloat(b.OtherIncome),
		CostOfSales:            decimal.NewFromFloat(b.CostOfSales),
		AdministrativeExpenses: decimal.NewFromFloat(b.AdministrativeExpenses),
		ProfessionalFees:       decimal.NewFromFloat(b.ProfessionalFees),
		OtherExpenses:          decimal.NewFromFloat(b.OtherExpenses),
		ProcessedDocuments:     b.ProcessedDocuments,
	}
}
