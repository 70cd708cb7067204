package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// StatementAccount summarises one account inside a statement section.
type StatementAccount struct {
	Code   string
	Name   string
	Amount decimal.Decimal
}

// StatementSection groups accounts of one nature with their total.
type StatementSection struct {
	Label    string
	Accounts []StatementAccount
	Total    decimal.Decimal
}

// ProfitAndLoss is the structured profit and loss statement.
type ProfitAndLoss struct {
	Revenue   StatementSection
	Expense   StatementSection
	NetIncome decimal.Decimal
}

// BalanceSheet is the structured balance sheet statement.
type BalanceSheet struct {
	Assets                    StatementSection
	Liabilities               StatementSection
	Equity                    StatementSection
	TotalLiabilitiesAndEquity decimal.Decimal
}

// BuildProfitAndLoss derives the profit and loss statement from a
// balanced snapshot. An unbalanced ledger is refused with the exact
// difference rather than producing best-effort figures.
func BuildProfitAndLoss(tb TrialBalance, coa *ChartOfAccounts) (ProfitAndLoss, error) {
	summary, err := Classify(tb, coa)
	if err != nil {
		return ProfitAndLoss{}, err
	}
	if !summary.IsBalanced {
		return ProfitAndLoss{}, &UnbalancedError{Difference: summary.Difference}
	}

	revenue := StatementSection{Label: "Revenue"}
	expense := StatementSection{Label: "Expenses"}
	for _, row := range tb.Rows() {
		class, err := coa.Classify(row.AccountCode)
		if err != nil {
			return ProfitAndLoss{}, err
		}
		net := row.Credit.Sub(row.Debit)
		switch class {
		case ClassRevenue:
			acc := StatementAccount{Code: row.AccountCode, Name: row.AccountName, Amount: net}
			revenue.Accounts = append(revenue.Accounts, acc)
			revenue.Total = revenue.Total.Add(acc.Amount)
		case ClassExpense:
			acc := StatementAccount{Code: row.AccountCode, Name: row.AccountName, Amount: net.Neg()}
			expense.Accounts = append(expense.Accounts, acc)
			expense.Total = expense.Total.Add(acc.Amount)
		}
	}
	sortAccounts(revenue.Accounts)
	sortAccounts(expense.Accounts)
	return ProfitAndLoss{
		Revenue:   revenue,
		Expense:   expense,
		NetIncome: revenue.Total.Sub(expense.Total),
	}, nil
}

// BuildBalanceSheet derives the balance sheet from a balanced snapshot,
// with the same refusal on unbalanced ledgers as BuildProfitAndLoss.
func BuildBalanceSheet(tb TrialBalance, coa *ChartOfAccounts) (BalanceSheet, error) {
	summary, err := Classify(tb, coa)
	if err != nil {
		return BalanceSheet{}, err
	}
	if !summary.IsBalanced {
		return BalanceSheet{}, &UnbalancedError{Difference: summary.Difference}
	}

	assets := StatementSection{Label: "Assets"}
	liabilities := StatementSection{Label: "Liabilities"}
	equity := StatementSection{Label: "Equity"}
	for _, row := range tb.Rows() {
		class, err := coa.Classify(row.AccountCode)
		if err != nil {
			return BalanceSheet{}, err
		}
		net := row.Credit.Sub(row.Debit)
		switch class {
		case ClassAsset:
			acc := StatementAccount{Code: row.AccountCode, Name: row.AccountName, Amount: net.Neg()}
			assets.Accounts = append(assets.Accounts, acc)
			assets.Total = assets.Total.Add(acc.Amount)
		case ClassLiability:
			acc := StatementAccount{Code: row.AccountCode, Name: row.AccountName, Amount: net}
			liabilities.Accounts = append(liabilities.Accounts, acc)
			liabilities.Total = liabilities.Total.Add(acc.Amount)
		case ClassEquity:
			acc := StatementAccount{Code: row.AccountCode, Name: row.AccountName, Amount: net}
			equity.Accounts = append(equity.Accounts, acc)
			equity.Total = equity.Total.Add(acc.Amount)
		}
	}
	sortAccounts(assets.Accounts)
	sortAccounts(liabilities.Accounts)
	sortAccounts(equity.Accounts)
	return BalanceSheet{
		Assets:                    assets,
		Liabilities:               liabilities,
		Equity:                    equity,
		TotalLiabilitiesAndEquity: liabilities.Total.Add(equity.Total),
	}, nil
}

func sortAccounts(accounts []StatementAccount) {
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
}
