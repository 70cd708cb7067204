package ledger

import "github.com/shopspring/decimal"

// Summary buckets net account balances by classification and carries the
// aggregate debit/credit totals. Difference is always reported alongside
// IsBalanced so consumers can surface the exact amount.
type Summary struct {
	Revenue     decimal.Decimal
	Expenses    decimal.Decimal
	Assets      decimal.Decimal
	Liabilities decimal.Decimal
	Equity      decimal.Decimal

	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
	Difference   decimal.Decimal
	IsBalanced   bool
}

// Classify buckets the snapshot's net balances using the chart of
// accounts. Credit-normal classifications accumulate credit minus debit;
// debit-normal classifications accumulate the negation. Rows classified
// Other contribute to the aggregate totals only.
func Classify(tb TrialBalance, coa *ChartOfAccounts) (Summary, error) {
	var s Summary
	for _, row := range tb.Rows() {
		class, err := coa.Classify(row.AccountCode)
		if err != nil {
			return Summary{}, err
		}
		net := row.Credit.Sub(row.Debit)
		switch class {
		case ClassRevenue:
			s.Revenue = s.Revenue.Add(net)
		case ClassLiability:
			s.Liabilities = s.Liabilities.Add(net)
		case ClassEquity:
			s.Equity = s.Equity.Add(net)
		case ClassExpense:
			s.Expenses = s.Expenses.Add(net.Neg())
		case ClassAsset:
			s.Assets = s.Assets.Add(net.Neg())
		}
		s.TotalDebits = s.TotalDebits.Add(row.Debit)
		s.TotalCredits = s.TotalCredits.Add(row.Credit)
	}
	s.Difference = s.TotalDebits.Sub(s.TotalCredits).Abs()
	s.IsBalanced = s.Difference.LessThanOrEqual(Tolerance)
	return s, nil
}
