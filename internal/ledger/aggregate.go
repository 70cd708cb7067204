package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrialBalance is an immutable ledger snapshot: one row per account code
// plus the set of journal entry and extraction batch IDs already applied.
// Merging returns a fresh snapshot and never mutates the receiver, so
// snapshots are safe to replay and to read concurrently.
type TrialBalance struct {
	rows    []Row
	applied map[uuid.UUID]struct{}
	batches map[string]struct{}
}

// NewTrialBalance returns an empty snapshot.
func NewTrialBalance() TrialBalance {
	return TrialBalance{}
}

// Rows returns a copy of the materialised rows in first-contribution order.
func (tb TrialBalance) Rows() []Row {
	out := make([]Row, len(tb.rows))
	copy(out, tb.rows)
	return out
}

// Applied reports whether a journal entry ID has already been merged.
func (tb TrialBalance) Applied(id uuid.UUID) bool {
	_, ok := tb.applied[id]
	return ok
}

// BatchApplied reports whether an extraction batch has already been merged.
func (tb TrialBalance) BatchApplied(batchID string) bool {
	_, ok := tb.batches[batchID]
	return ok
}

// Totals sums debit and credit across all rows.
func (tb TrialBalance) Totals() (debit, credit decimal.Decimal) {
	for _, row := range tb.rows {
		debit = debit.Add(row.Debit)
		credit = credit.Add(row.Credit)
	}
	return debit, credit
}

func (tb TrialBalance) clone() TrialBalance {
	next := TrialBalance{
		rows:    make([]Row, len(tb.rows)),
		applied: make(map[uuid.UUID]struct{}, len(tb.applied)+1),
		batches: make(map[string]struct{}, len(tb.batches)+1),
	}
	copy(next.rows, tb.rows)
	for id := range tb.applied {
		next.applied[id] = struct{}{}
	}
	for id := range tb.batches {
		next.batches[id] = struct{}{}
	}
	return next
}

// RestoreTrialBalance rebuilds a snapshot from persisted state. Used by
// repositories replaying stored rows and applied-ID sets.
func RestoreTrialBalance(rows []Row, applied []uuid.UUID, batches []string) TrialBalance {
	tb := TrialBalance{
		rows:    make([]Row, len(rows)),
		applied: make(map[uuid.UUID]struct{}, len(applied)),
		batches: make(map[string]struct{}, len(batches)),
	}
	copy(tb.rows, rows)
	for _, id := range applied {
		tb.applied[id] = struct{}{}
	}
	for _, id := range batches {
		tb.batches[id] = struct{}{}
	}
	return tb
}

// AppliedEntryIDs returns the recorded journal entry IDs.
func (tb TrialBalance) AppliedEntryIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(tb.applied))
	for id := range tb.applied {
		out = append(out, id)
	}
	return out
}

// AppliedBatchIDs returns the recorded extraction batch IDs.
func (tb TrialBalance) AppliedBatchIDs() []string {
	out := make([]string, 0, len(tb.batches))
	for id := range tb.batches {
		out = append(out, id)
	}
	return out
}

// DocumentExtraction is the flat per-period record delivered by the
// upstream document extraction pipeline. Synthetic single-sided rows are
// derived from the non-zero categories.
type DocumentExtraction struct {
	BatchID                string
	Turnover               decimal.Decimal
	OtherIncome            decimal.Decimal
	CostOfSales            decimal.Decimal
	AdministrativeExpenses decimal.Decimal
	ProfessionalFees       decimal.Decimal
	OtherExpenses          decimal.Decimal
	ProcessedDocuments     int
}

// Category account codes used when synthesising extraction rows.
const (
	codeTurnover               = "4000"
	codeOtherIncome            = "4900"
	codeCostOfSales            = "5000"
	codeAdministrativeExpenses = "6100"
	codeProfessionalFees       = "6200"
	codeOtherExpenses          = "6900"
)

// Aggregator merges journal entries and extraction batches into trial
// balance snapshots using a chart of accounts for name resolution.
type Aggregator struct {
	coa *ChartOfAccounts
}

// NewAggregator constructs an Aggregator over the given chart.
func NewAggregator(coa *ChartOfAccounts) *Aggregator {
	return &Aggregator{coa: coa}
}

// Merge applies a journal entry to the snapshot and returns the updated
// snapshot. The input snapshot is untouched on every path. A replayed
// entry ID returns the snapshot unchanged together with ErrDuplicateEntry.
func (a *Aggregator) Merge(tb TrialBalance, entry JournalEntry, source Source) (TrialBalance, error) {
	if !source.Valid() {
		return tb, ErrInvalidSource
	}
	if err := Validate(entry); err != nil {
		return tb, err
	}
	// Resolve every account before touching any row so a failure never
	// leaves a partially merged entry.
	accounts := make(map[string]Account)
	for _, line := range entry.Lines {
		if line.Empty() {
			continue
		}
		acc, err := a.coa.Lookup(line.AccountCode)
		if err != nil {
			return tb, err
		}
		accounts[line.AccountCode] = acc
	}
	if tb.Applied(entry.ID) {
		return tb, ErrDuplicateEntry
	}

	next := tb.clone()
	for _, line := range entry.Lines {
		if line.Empty() {
			continue
		}
		acc := accounts[line.AccountCode]
		next.accumulate(Row{
			AccountCode: acc.Code,
			AccountName: acc.Name,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Source:      source,
		}, entry.Reference)
	}
	next.applied[entry.ID] = struct{}{}
	return next, nil
}

// MergeExtraction applies a document extraction batch as synthetic
// single-sided rows. Batches bypass per-entry balance validation by
// construction; the whole-ledger debit/credit check still covers them.
// Redelivery of a known batch ID is a no-op resolved with ErrDuplicateBatch.
func (a *Aggregator) MergeExtraction(tb TrialBalance, batch DocumentExtraction) (TrialBalance, error) {
	if batch.BatchID == "" {
		return tb, ErrMissingEntryID
	}
	if tb.BatchApplied(batch.BatchID) {
		return tb, ErrDuplicateBatch
	}

	type category struct {
		code   string
		amount decimal.Decimal
		credit bool
	}
	categories := []category{
		{codeTurnover, batch.Turnover, true},
		{codeOtherIncome, batch.OtherIncome, true},
		{codeCostOfSales, batch.CostOfSales, false},
		{codeAdministrativeExpenses, batch.AdministrativeExpenses, false},
		{codeProfessionalFees, batch.ProfessionalFees, false},
		{codeOtherExpenses, batch.OtherExpenses, false},
	}

	next := tb.clone()
	for _, cat := range categories {
		if cat.amount.IsZero() {
			continue
		}
		if cat.amount.IsNegative() {
			return tb, ErrNegativeAmount
		}
		acc, err := a.coa.Lookup(cat.code)
		if err != nil {
			return tb, err
		}
		row := Row{
			AccountCode: acc.Code,
			AccountName: acc.Name,
			Source:      SourceAIProcessed,
			DocumentRef: batch.BatchID,
		}
		if cat.credit {
			row.Credit = cat.amount
		} else {
			row.Debit = cat.amount
		}
		next.accumulate(row, batch.BatchID)
	}
	next.batches[batch.BatchID] = struct{}{}
	return next, nil
}

// accumulate adds a contribution into the row for its account code,
// creating the row on first contribution. Amounts are summed, never
// overwritten, and the original provenance tag is kept; a contribution
// from a different source records the reference as an adjustment.
func (tb *TrialBalance) accumulate(contribution Row, reference string) {
	for i := range tb.rows {
		if tb.rows[i].AccountCode != contribution.AccountCode {
			continue
		}
		row := &tb.rows[i]
		row.Debit = row.Debit.Add(contribution.Debit)
		row.Credit = row.Credit.Add(contribution.Credit)
		if row.Source != contribution.Source && reference != "" {
			if row.AdjustmentRef == "" {
				row.AdjustmentRef = reference
			} else {
				row.AdjustmentRef += "," + reference
			}
		}
		if row.DocumentRef == "" && contribution.DocumentRef != "" {
			row.DocumentRef = contribution.DocumentRef
		}
		return
	}
	if contribution.AdjustmentRef == "" && contribution.DocumentRef == "" {
		contribution.AdjustmentRef = reference
	}
	tb.rows = append(tb.rows, contribution)
}
