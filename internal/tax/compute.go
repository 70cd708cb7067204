package tax

import "github.com/shopspring/decimal"

// Statutory figures for financial years from 1 April 2023.
var (
	smallProfitsRate = decimal.RequireFromString("0.19")
	mainRate         = decimal.RequireFromString("0.25")
	lowerThreshold   = decimal.NewFromInt(50_000)
	upperThreshold   = decimal.NewFromInt(250_000)
	// Standard marginal relief fraction, 3/200.
	reliefFraction = decimal.RequireFromString("0.015")

	ratePercentSmall = decimal.NewFromInt(19)
	ratePercentMain  = decimal.NewFromInt(25)
)

// Compute derives the Corporation Tax position from the input figures.
// It is pure and deterministic; all monetary outputs are rounded to two
// decimal places, half up.
func Compute(in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	tradingProfit := in.Turnover.Sub(in.CostOfSales).Sub(in.OperatingExpenses)

	// A trading loss never reduces investment income below zero here;
	// loss relief is claimed through lossesBroughtForward instead.
	tradingContribution := tradingProfit
	if tradingContribution.IsNegative() {
		tradingContribution = decimal.Zero
	}
	chargeable := tradingContribution.
		Add(in.InterestReceived).
		Add(in.DividendsReceived).
		Add(in.DepreciationAddBack).
		Sub(in.CapitalAllowances).
		Sub(in.LossesBroughtForward)
	if chargeable.IsNegative() {
		chargeable = decimal.Zero
	}

	// Thresholds are divided between associated companies. The division
	// is carried at full precision; only final outputs are rounded.
	divisor := decimal.NewFromInt(int64(1 + in.AssociatedCompanies))
	lowerLimit := lowerThreshold.Div(divisor)
	upperLimit := upperThreshold.Div(divisor)

	var (
		ratePercent   decimal.Decimal
		beforeReliefs decimal.Decimal
		marginal      decimal.Decimal
		reliefApplied bool
	)
	switch {
	case chargeable.LessThanOrEqual(lowerLimit):
		ratePercent = ratePercentSmall
		beforeReliefs = chargeable.Mul(smallProfitsRate)
	case chargeable.GreaterThanOrEqual(upperLimit):
		ratePercent = ratePercentMain
		beforeReliefs = chargeable.Mul(mainRate)
	default:
		ratePercent = ratePercentMain
		beforeReliefs = chargeable.Mul(mainRate)
		marginal = upperLimit.Sub(chargeable).Mul(reliefFraction)
		reliefApplied = true
	}

	totalReliefs := in.RDReliefClaim.Add(in.CharitableDonations)
	due := beforeReliefs.Sub(marginal).Sub(totalReliefs)
	if due.IsNegative() {
		due = decimal.Zero
	}

	return Result{
		ChargeableProfits:           chargeable.Round(2),
		CorporationTaxRate:          ratePercent,
		CorporationTaxBeforeReliefs: beforeReliefs.Round(2),
		TotalReliefs:                totalReliefs.Round(2),
		CorporationTaxDue:           due.Round(2),
		Breakdown: Breakdown{
			TradingProfit: TradingProfitCalculation{
				Turnover:          in.Turnover.Round(2),
				CostOfSales:       in.CostOfSales.Round(2),
				OperatingExpenses: in.OperatingExpenses.Round(2),
				TradingProfit:     tradingProfit.Round(2),
			},
			Tax: TaxCalculation{
				LowerLimit:            lowerLimit.Round(2),
				UpperLimit:            upperLimit.Round(2),
				MarginalReliefApplied: reliefApplied,
				MarginalReliefAmount:  marginal.Round(2),
			},
		},
	}, nil
}
