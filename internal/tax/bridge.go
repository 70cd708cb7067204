package tax

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/ledger"
)

// Adjustments carries the CT600 fields that do not originate from the
// ledger when deriving a computation from a trial balance.
type Adjustments struct {
	DepreciationAddBack  decimal.Decimal
	CapitalAllowances    decimal.Decimal
	LossesBroughtForward decimal.Decimal
	RDReliefClaim        decimal.Decimal
	CharitableDonations  decimal.Decimal
	AssociatedCompanies  int
	PeriodStart          time.Time
	PeriodEnd            time.Time
}

// InputFromTrialBalance builds a computation input from a balanced
// snapshot. Revenue accounts feed turnover, cost-of-sales accounts (5xxx)
// feed costOfSales and the remaining expense accounts feed
// operatingExpenses. An unbalanced ledger is refused so a silently wrong
// computation can never be produced from ledger figures.
func InputFromTrialBalance(tb ledger.TrialBalance, coa *ledger.ChartOfAccounts, adj Adjustments) (Input, error) {
	pl, err := ledger.BuildProfitAndLoss(tb, coa)
	if err != nil {
		return Input{}, err
	}

	in := Input{
		Turnover:             pl.Revenue.Total,
		DepreciationAddBack:  adj.DepreciationAddBack,
		CapitalAllowances:    adj.CapitalAllowances,
		LossesBroughtForward: adj.LossesBroughtForward,
		RDReliefClaim:        adj.RDReliefClaim,
		CharitableDonations:  adj.CharitableDonations,
		AssociatedCompanies:  adj.AssociatedCompanies,
		PeriodStart:          adj.PeriodStart,
		PeriodEnd:            adj.PeriodEnd,
	}
	for _, acc := range pl.Expense.Accounts {
		if strings.HasPrefix(acc.Code, "5") {
			in.CostOfSales = in.CostOfSales.Add(acc.Amount)
		} else {
			in.OperatingExpenses = in.OperatingExpenses.Add(acc.Amount)
		}
	}
	return in, nil
}
