package trialbalance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/ledger"
)

// journalLineRequest carries one proposed journal line. Lines with both
// sides zero are treated as empty and discarded by validation.
type journalLineRequest struct {
	AccountCode string  `json:"accountCode"`
	Debit       float64 `json:"debit" validate:"gte=0"`
	Credit      float64 `json:"credit" validate:"gte=0"`
}

// journalRequest is the merge-journal payload. ID is the caller-stable
// idempotency key; one is generated when omitted, which forfeits replay
// protection for that entry.
type journalRequest struct {
	ID          string               `json:"id" validate:"omitempty,uuid"`
	Date        string               `json:"date" validate:"required,datetime=2006-01-02"`
	Description string               `json:"description"`
	Reference   string               `json:"reference"`
	Source      string               `json:"source" validate:"required,oneof=ai_processed manual_journal opening_balance"`
	Lines       []journalLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (r journalRequest) toEntry() (ledger.JournalEntry, ledger.Source, error) {
	id := uuid.New()
	if r.ID != "" {
		parsed, err := uuid.Parse(r.ID)
		if err != nil {
			return ledger.JournalEntry{}, "", err
		}
		id = parsed
	}
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return ledger.JournalEntry{}, "", err
	}
	lines := make([]ledger.JournalLine, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, ledger.JournalLine{
			AccountCode: line.AccountCode,
			Debit:       decimal.NewFromFloat(line.Debit),
			Credit:      decimal.NewFromFloat(line.Credit),
		})
	}
	return ledger.JournalEntry{
		ID:          id,
		Date:        date,
		Description: r.Description,
		Reference:   r.Reference,
		Lines:       lines,
	}, ledger.Source(r.Source), nil
}

type rowResponse struct {
	AccountCode   string  `json:"accountCode"`
	AccountName   string  `json:"accountName"`
	Debit         float64 `json:"debit"`
	Credit        float64 `json:"credit"`
	Source        string  `json:"source"`
	DocumentRef   string  `json:"documentRef,omitempty"`
	AdjustmentRef string  `json:"adjustmentRef,omitempty"`
}

type summaryResponse struct {
	Revenue      float64 `json:"revenue"`
	Expenses     float64 `json:"expenses"`
	Assets       float64 `json:"assets"`
	Liabilities  float64 `json:"liabilities"`
	Equity       float64 `json:"equity"`
	TotalDebits  float64 `json:"totalDebits"`
	TotalCredits float64 `json:"totalCredits"`
	Difference   float64 `json:"difference"`
	IsBalanced   bool    `json:"isBalanced"`
}

type snapshotResponse struct {
	CompanyID string          `json:"companyId"`
	PeriodID  string          `json:"periodId"`
	Rows      []rowResponse   `json:"rows"`
	Summary   summaryResponse `json:"summary"`
	Duplicate bool            `json:"duplicate,omitempty"`
}

func toSnapshotResponse(snap Snapshot, duplicate bool) snapshotResponse {
	rows := make([]rowResponse, 0, len(snap.Rows))
	for _, row := range snap.Rows {
		rows = append(rows, rowResponse{
			AccountCode:   row.AccountCode,
			AccountName:   row.AccountName,
			Debit:         toFloat(row.Debit),
			Credit:        toFloat(row.Credit),
			Source:        string(row.Source),
			DocumentRef:   row.DocumentRef,
			AdjustmentRef: row.AdjustmentRef,
		})
	}
	return snapshotResponse{
		CompanyID: snap.CompanyID,
		PeriodID:  snap.PeriodID,
		Rows:      rows,
		Summary: summaryResponse{
			Revenue:      toFloat(snap.Summary.Revenue),
			Expenses:     toFloat(snap.Summary.Expenses),
			Assets:       toFloat(snap.Summary.Assets),
			Liabilities:  toFloat(snap.Summary.Liabilities),
			Equity:       toFloat(snap.Summary.Equity),
			TotalDebits:  toFloat(snap.Summary.TotalDebits),
			TotalCredits: toFloat(snap.Summary.TotalCredits),
			Difference:   toFloat(snap.Summary.Difference),
			IsBalanced:   snap.Summary.IsBalanced,
		},
		Duplicate: duplicate,
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
