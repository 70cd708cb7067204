package ledger

import (
	"strings"
)

// Account is immutable chart of accounts reference data.
type Account struct {
	Code           string
	Name           string
	Classification Classification
}

// prefixClasses maps the leading digit of a 4-digit account code to a
// classification. The rule is defined once here; everything else asks
// the chart.
var prefixClasses = map[byte]Classification{
	'1': ClassAsset,
	'2': ClassLiability,
	'3': ClassEquity,
	'4': ClassRevenue,
	'5': ClassExpense,
	'6': ClassExpense,
}

// ChartOfAccounts resolves account codes to names and classifications.
// Codes outside the default taxonomy can be registered as overrides so
// ad-hoc accounts created by document extraction do not block merging.
type ChartOfAccounts struct {
	accounts  map[string]Account
	overrides map[string]Account
}

// NewChartOfAccounts builds a chart seeded with the given accounts.
func NewChartOfAccounts(accounts []Account) *ChartOfAccounts {
	coa := &ChartOfAccounts{
		accounts:  make(map[string]Account, len(accounts)),
		overrides: make(map[string]Account),
	}
	for _, acc := range accounts {
		coa.accounts[acc.Code] = acc
	}
	return coa
}

// DefaultChart returns the standard UK small-company account set.
func DefaultChart() *ChartOfAccounts {
	return NewChartOfAccounts([]Account{
		{Code: "1000", Name: "Bank Current Account", Classification: ClassAsset},
		{Code: "1100", Name: "Trade Debtors", Classification: ClassAsset},
		{Code: "1200", Name: "Prepayments", Classification: ClassAsset},
		{Code: "1400", Name: "Fixtures and Equipment", Classification: ClassAsset},
		{Code: "2000", Name: "Trade Creditors", Classification: ClassLiability},
		{Code: "2100", Name: "Accruals", Classification: ClassLiability},
		{Code: "2200", Name: "VAT Payable", Classification: ClassLiability},
		{Code: "2300", Name: "Corporation Tax Payable", Classification: ClassLiability},
		{Code: "3000", Name: "Share Capital", Classification: ClassEquity},
		{Code: "3100", Name: "Retained Earnings", Classification: ClassEquity},
		{Code: "4000", Name: "Turnover", Classification: ClassRevenue},
		{Code: "4900", Name: "Other Income", Classification: ClassRevenue},
		{Code: "5000", Name: "Cost of Sales", Classification: ClassExpense},
		{Code: "6100", Name: "Administrative Expenses", Classification: ClassExpense},
		{Code: "6200", Name: "Professional Fees", Classification: ClassExpense},
		{Code: "6900", Name: "Other Expenses", Classification: ClassExpense},
	})
}

// Register adds an override for a code outside the default taxonomy.
// An empty classification registers the account as Other.
func (c *ChartOfAccounts) Register(code, name string, class Classification) {
	if class == "" {
		class = ClassOther
	}
	c.overrides[code] = Account{Code: code, Name: name, Classification: class}
}

// Classify resolves the classification for an account code.
func (c *ChartOfAccounts) Classify(code string) (Classification, error) {
	if acc, ok := c.accounts[code]; ok {
		return acc.Classification, nil
	}
	if acc, ok := c.overrides[code]; ok {
		return acc.Classification, nil
	}
	if class, ok := classifyPrefix(code); ok {
		return class, nil
	}
	return "", &UnknownAccountError{Code: code}
}

// Name resolves the display name for an account code. Codes known only by
// taxonomy prefix fall back to a generic classification label.
func (c *ChartOfAccounts) Name(code string) (string, error) {
	if acc, ok := c.accounts[code]; ok {
		return acc.Name, nil
	}
	if acc, ok := c.overrides[code]; ok {
		return acc.Name, nil
	}
	if class, ok := classifyPrefix(code); ok {
		return genericName(class), nil
	}
	return "", &UnknownAccountError{Code: code}
}

// Lookup resolves both name and classification in one call.
func (c *ChartOfAccounts) Lookup(code string) (Account, error) {
	if acc, ok := c.accounts[code]; ok {
		return acc, nil
	}
	if acc, ok := c.overrides[code]; ok {
		return acc, nil
	}
	if class, ok := classifyPrefix(code); ok {
		return Account{Code: code, Name: genericName(class), Classification: class}, nil
	}
	return Account{}, &UnknownAccountError{Code: code}
}

func classifyPrefix(code string) (Classification, bool) {
	code = strings.TrimSpace(code)
	if len(code) != 4 {
		return "", false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return "", false
		}
	}
	class, ok := prefixClasses[code[0]]
	return class, ok
}

func genericName(class Classification) string {
	switch class {
	case ClassAsset:
		return "Unnamed Asset Account"
	case ClassLiability:
		return "Unnamed Liability Account"
	case ClassEquity:
		return "Unnamed Equity Account"
	case ClassRevenue:
		return "Unnamed Revenue Account"
	case ClassExpense:
		return "Unnamed Expense Account"
	}
	return "Suspense Account"
}
