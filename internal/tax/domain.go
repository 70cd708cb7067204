// Package tax implements the UK Corporation Tax computation for the
// small-profits and main-rate regime, including marginal relief.
package tax

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Input collects the CT600 figures the computation consumes. Monetary
// fields left at zero are treated as absent.
type Input struct {
	Turnover            decimal.Decimal
	CostOfSales         decimal.Decimal
	OperatingExpenses   decimal.Decimal
	InterestReceived    decimal.Decimal
	DividendsReceived   decimal.Decimal
	DepreciationAddBack decimal.Decimal
	CapitalAllowances   decimal.Decimal
	LossesBroughtForward decimal.Decimal
	RDReliefClaim       decimal.Decimal
	CharitableDonations decimal.Decimal
	AssociatedCompanies int
	PeriodStart         time.Time
	PeriodEnd           time.Time
}

// TradingProfitCalculation shows how trading profit was derived.
type TradingProfitCalculation struct {
	Turnover          decimal.Decimal
	CostOfSales       decimal.Decimal
	OperatingExpenses decimal.Decimal
	TradingProfit     decimal.Decimal
}

// TaxCalculation shows the rate decision and marginal relief applied.
type TaxCalculation struct {
	LowerLimit            decimal.Decimal
	UpperLimit            decimal.Decimal
	MarginalReliefApplied bool
	MarginalReliefAmount  decimal.Decimal
}

// Breakdown carries the full working for auditor review.
type Breakdown struct {
	TradingProfit TradingProfitCalculation
	Tax           TaxCalculation
}

// Result is the computed tax position. It is a pure function output,
// recomputed whenever inputs change, never the source of truth.
type Result struct {
	ChargeableProfits           decimal.Decimal
	CorporationTaxRate          decimal.Decimal
	CorporationTaxBeforeReliefs decimal.Decimal
	TotalReliefs                decimal.Decimal
	CorporationTaxDue           decimal.Decimal
	Breakdown                   Breakdown
}

// InvalidInputError reports a field that fails fast before computation.
type InvalidInputError struct {
	Field string
	Value string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("tax: invalid input %s=%s", e.Field, e.Value)
}

// Validate rejects negative amounts and a negative associated-company
// count before any computation proceeds.
func (in Input) Validate() error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"turnover", in.Turnover},
		{"costOfSales", in.CostOfSales},
		{"operatingExpenses", in.OperatingExpenses},
		{"interestReceived", in.InterestReceived},
		{"dividendsReceived", in.DividendsReceived},
		{"depreciationAddBack", in.DepreciationAddBack},
		{"capitalAllowances", in.CapitalAllowances},
		{"lossesBroughtForward", in.LossesBroughtForward},
		{"rdReliefClaim", in.RDReliefClaim},
		{"charitableDonations", in.CharitableDonations},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return &InvalidInputError{Field: f.name, Value: f.value.String()}
		}
	}
	if in.AssociatedCompanies < 0 {
		return &InvalidInputError{Field: "numberOfAssociatedCompanies", Value: fmt.Sprintf("%d", in.AssociatedCompanies)}
	}
	return nil
}
