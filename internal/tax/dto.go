package tax

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComputeRequest is the standalone compute-tax payload. Monetary fields
// are non-negative numbers; omitted fields default to zero.
type ComputeRequest struct {
	Turnover                    float64 `json:"turnover" validate:"gte=0"`
	CostOfSales                 float64 `json:"costOfSales" validate:"gte=0"`
	OperatingExpenses           float64 `json:"operatingExpenses" validate:"gte=0"`
	InterestReceived            float64 `json:"interestReceived" validate:"gte=0"`
	DividendsReceived           float64 `json:"dividendsReceived" validate:"gte=0"`
	DepreciationAddBack         float64 `json:"depreciationAddBack" validate:"gte=0"`
	CapitalAllowances           float64 `json:"capitalAllowances" validate:"gte=0"`
	LossesBroughtForward        float64 `json:"lossesBroughtForward" validate:"gte=0"`
	RDReliefClaim               float64 `json:"rdReliefClaim" validate:"gte=0"`
	CharitableDonations         float64 `json:"charitableDonations" validate:"gte=0"`
	NumberOfAssociatedCompanies int     `json:"numberOfAssociatedCompanies" validate:"gte=0"`
	AccountingPeriodStart       string  `json:"accountingPeriodStart" validate:"omitempty,datetime=2006-01-02"`
	AccountingPeriodEnd         string  `json:"accountingPeriodEnd" validate:"omitempty,datetime=2006-01-02"`
}

// ToInput converts the request into a computation input.
func (r ComputeRequest) ToInput() Input {
	in := Input{
		Turnover:             decimal.NewFromFloat(r.Turnover),
		CostOfSales:          decimal.NewFromFloat(r.CostOfSales),
		OperatingExpenses:    decimal.NewFromFloat(r.OperatingExpenses),
		InterestReceived:     decimal.NewFromFloat(r.InterestReceived),
		DividendsReceived:    decimal.NewFromFloat(r.DividendsReceived),
		DepreciationAddBack:  decimal.NewFromFloat(r.DepreciationAddBack),
		CapitalAllowances:    decimal.NewFromFloat(r.CapitalAllowances),
		LossesBroughtForward: decimal.NewFromFloat(r.LossesBroughtForward),
		RDReliefClaim:        decimal.NewFromFloat(r.RDReliefClaim),
		CharitableDonations:  decimal.NewFromFloat(r.CharitableDonations),
		AssociatedCompanies:  r.NumberOfAssociatedCompanies,
	}
	if start, err := time.Parse("2006-01-02", r.AccountingPeriodStart); err == nil {
		in.PeriodStart = start
	}
	if end, err := time.Parse("2006-01-02", r.AccountingPeriodEnd); err == nil {
		in.PeriodEnd = end
	}
	return in
}

// AdjustmentsRequest carries the non-ledger CT600 fields for a
// ledger-derived computation.
type AdjustmentsRequest struct {
	DepreciationAddBack         float64 `json:"depreciationAddBack" validate:"gte=0"`
	CapitalAllowances           float64 `json:"capitalAllowances" validate:"gte=0"`
	LossesBroughtForward        float64 `json:"lossesBroughtForward" validate:"gte=0"`
	RDReliefClaim               float64 `json:"rdReliefClaim" validate:"gte=0"`
	CharitableDonations         float64 `json:"charitableDonations" validate:"gte=0"`
	NumberOfAssociatedCompanies int     `json:"numberOfAssociatedCompanies" validate:"gte=0"`
}

// ToAdjustments converts the request into bridge adjustments.
func (r AdjustmentsRequest) ToAdjustments() Adjustments {
	return Adjustments{
		DepreciationAddBack:  decimal.NewFromFloat(r.DepreciationAddBack),
		CapitalAllowances:    decimal.NewFromFloat(r.CapitalAllowances),
		LossesBroughtForward: decimal.NewFromFloat(r.LossesBroughtForward),
		RDReliefClaim:        decimal.NewFromFloat(r.RDReliefClaim),
		CharitableDonations:  decimal.NewFromFloat(r.CharitableDonations),
		AssociatedCompanies:  r.NumberOfAssociatedCompanies,
	}
}

type tradingProfitResponse struct {
	Turnover          float64 `json:"turnover"`
	CostOfSales       float64 `json:"costOfSales"`
	OperatingExpenses float64 `json:"operatingExpenses"`
	TradingProfit     float64 `json:"tradingProfit"`
}

type taxCalculationResponse struct {
	LowerLimit            float64 `json:"lowerLimit"`
	UpperLimit            float64 `json:"upperLimit"`
	MarginalReliefApplied bool    `json:"marginalReliefApplied"`
	MarginalReliefAmount  float64 `json:"marginalReliefAmount"`
}

type breakdownResponse struct {
	TradingProfitCalculation tradingProfitResponse  `json:"tradingProfitCalculation"`
	TaxCalculation           taxCalculationResponse `json:"taxCalculation"`
}

// ResultResponse is the JSON shape of a computation result.
type ResultResponse struct {
	ChargeableProfits           float64           `json:"chargeableProfits"`
	CorporationTaxRate          float64           `json:"corporationTaxRate"`
	CorporationTaxBeforeReliefs float64           `json:"corporationTaxBeforeReliefs"`
	TotalReliefs                float64           `json:"totalReliefs"`
	CorporationTaxDue           float64           `json:"corporationTaxDue"`
	Breakdown                   breakdownResponse `json:"breakdown"`
}

// ToResultResponse converts a Result for JSON transport.
func ToResultResponse(res Result) ResultResponse {
	return ResultResponse{
		ChargeableProfits:           toFloat(res.ChargeableProfits),
		CorporationTaxRate:          toFloat(res.CorporationTaxRate),
		CorporationTaxBeforeReliefs: toFloat(res.CorporationTaxBeforeReliefs),
		TotalReliefs:                toFloat(res.TotalReliefs),
		CorporationTaxDue:           toFloat(res.CorporationTaxDue),
		Breakdown: breakdownResponse{
			TradingProfitCalculation: tradingProfitResponse{
				Turnover:          toFloat(res.Breakdown.TradingProfit.Turnover),
				CostOfSales:       toFloat(res.Breakdown.TradingProfit.CostOfSales),
				OperatingExpenses: toFloat(res.Breakdown.TradingProfit.OperatingExpenses),
				TradingProfit:     toFloat(res.Breakdown.TradingProfit.TradingProfit),
			},
			TaxCalculation: taxCalculationResponse{
				LowerLimit:            toFloat(res.Breakdown.Tax.LowerLimit),
				UpperLimit:            toFloat(res.Breakdown.Tax.UpperLimit),
				MarginalReliefApplied: res.Breakdown.Tax.MarginalReliefApplied,
				MarginalReliefAmount:  toFloat(res.Breakdown.Tax.MarginalReliefAmount),
			},
		},
	}
}

// Band labels the rate band of a result for observability.
func Band(res Result) string {
	switch {
	case res.Breakdown.Tax.MarginalReliefApplied:
		return "marginal_relief"
	case res.CorporationTaxRate.Equal(ratePercentMain):
		return "main_rate"
	default:
		return "small_profits"
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
