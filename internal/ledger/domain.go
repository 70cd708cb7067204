package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Classification enumerates chart of accounts categories.
type Classification string

const (
	ClassAsset     Classification = "ASSET"
	ClassLiability Classification = "LIABILITY"
	ClassEquity    Classification = "EQUITY"
	ClassRevenue   Classification = "REVENUE"
	ClassExpense   Classification = "EXPENSE"
	ClassOther     Classification = "OTHER"
)

// Source tags the provenance of a trial balance row.
type Source string

const (
	SourceAIProcessed    Source = "ai_processed"
	SourceManualJournal  Source = "manual_journal"
	SourceOpeningBalance Source = "opening_balance"
)

// Valid reports whether the source is one of the known provenance tags.
func (s Source) Valid() bool {
	switch s {
	case SourceAIProcessed, SourceManualJournal, SourceOpeningBalance:
		return true
	}
	return false
}

// Tolerance is the currency rounding tolerance applied to balance checks.
var Tolerance = decimal.New(1, -2)

// JournalLine is a single debit or credit against an account.
type JournalLine struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Empty reports whether both sides of the line are zero.
func (l JournalLine) Empty() bool {
	return l.Debit.IsZero() && l.Credit.IsZero()
}

// JournalEntry is a write-once double-entry posting.
type JournalEntry struct {
	ID          uuid.UUID
	Date        time.Time
	Description string
	Reference   string
	Lines       []JournalLine
}

// Totals sums the debit and credit sides across all lines.
func (e JournalEntry) Totals() (debit, credit decimal.Decimal) {
	for _, line := range e.Lines {
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	return debit, credit
}

// Row is one materialised trial balance row per account code.
// Provenance fields survive every merge for audit traceability.
type Row struct {
	AccountCode   string
	AccountName   string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Source        Source
	DocumentRef   string
	AdjustmentRef string
}

var (
	// ErrEmptyEntry indicates an entry with no non-empty lines.
	ErrEmptyEntry = errors.New("ledger: journal entry has no non-empty lines")
	// ErrMissingAccountCode indicates a line without an account code.
	ErrMissingAccountCode = errors.New("ledger: journal line missing account code")
	// ErrNegativeAmount indicates a negative debit or credit.
	ErrNegativeAmount = errors.New("ledger: journal line amount negative")
	// ErrMissingEntryID indicates an entry without a stable identifier.
	ErrMissingEntryID = errors.New("ledger: journal entry id required")
	// ErrInvalidSource indicates an unknown provenance tag.
	ErrInvalidSource = errors.New("ledger: invalid source tag")
	// ErrDuplicateEntry indicates a replay of an already-applied entry ID.
	// Merging resolves it as a no-op; callers log it rather than fail.
	ErrDuplicateEntry = errors.New("ledger: journal entry already applied")
	// ErrDuplicateBatch indicates a redelivered extraction batch.
	ErrDuplicateBatch = errors.New("ledger: extraction batch already applied")
)

// BalanceError reports a journal entry whose sides differ beyond tolerance.
type BalanceError struct {
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
	Difference  decimal.Decimal
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("ledger: entry does not balance: debits %s, credits %s, difference %s",
		e.DebitTotal.StringFixed(2), e.CreditTotal.StringFixed(2), e.Difference.StringFixed(2))
}

// UnknownAccountError reports a code with no taxonomy match and no override.
type UnknownAccountError struct {
	Code string
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("ledger: unknown account code %q", e.Code)
}

// UnbalancedError is returned when a consumer asks for derived figures
// from a ledger whose aggregate debits and credits disagree.
type UnbalancedError struct {
	Difference decimal.Decimal
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("ledger: trial balance out of balance by %s", e.Difference.StringFixed(2))
}
