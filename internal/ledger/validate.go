package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// Validate enforces the structural and balance invariants on a proposed
// journal entry. It never mutates anything; callers validate before
// merging and the aggregator re-validates regardless.
func Validate(entry JournalEntry) error {
	if entry.ID == uuid.Nil {
		return ErrMissingEntryID
	}
	nonEmpty := 0
	for idx, line := range entry.Lines {
		if line.Empty() {
			continue
		}
		nonEmpty++
		if line.AccountCode == "" {
			return fmt.Errorf("%w: line %d", ErrMissingAccountCode, idx)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d", ErrNegativeAmount, idx)
		}
	}
	if nonEmpty == 0 {
		return ErrEmptyEntry
	}
	debit, credit := entry.Totals()
	if diff := debit.Sub(credit).Abs(); diff.GreaterThan(Tolerance) {
		return &BalanceError{DebitTotal: debit, CreditTotal: credit, Difference: diff}
	}
	return nil
}
