package ledger

import (
	"errors"
	"testing"
)

func balancedSnapshot(t *testing.T) (TrialBalance, *ChartOfAccounts) {
	t.Helper()
	coa := DefaultChart()
	agg := NewAggregator(coa)
	tb := NewTrialBalance()
	entries := []JournalEntry{
		testEntry(
			JournalLine{AccountCode: "1100", Debit: d("1200")},
			JournalLine{AccountCode: "4000", Credit: d("1200")},
		),
		testEntry(
			JournalLine{AccountCode: "5000", Debit: d("300")},
			JournalLine{AccountCode: "2000", Credit: d("300")},
		),
		testEntry(
			JournalLine{AccountCode: "6100", Debit: d("200")},
			JournalLine{AccountCode: "1000", Credit: d("200")},
		),
	}
	for _, e := range entries {
		var err error
		tb, err = agg.Merge(tb, e, SourceManualJournal)
		if err != nil {
			t.Fatalf("merge: %v", err)
		}
	}
	return tb, coa
}

func TestBuildProfitAndLoss(t *testing.T) {
	tb, coa := balancedSnapshot(t)
	pl, err := BuildProfitAndLoss(tb, coa)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if pl.Revenue.Total.StringFixed(2) != "1200.00" {
		t.Fatalf("revenue total = %s", pl.Revenue.Total)
	}
	if pl.Expense.Total.StringFixed(2) != "500.00" {
		t.Fatalf("expense total = %s", pl.Expense.Total)
	}
	if pl.NetIncome.StringFixed(2) != "700.00" {
		t.Fatalf("net income = %s", pl.NetIncome)
	}
}

func TestBuildBalanceSheet(t *testing.T) {
	tb, coa := balancedSnapshot(t)
	bs, err := BuildBalanceSheet(tb, coa)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if bs.Assets.Total.StringFixed(2) != "1000.00" {
		t.Fatalf("assets total = %s", bs.Assets.Total)
	}
	if bs.Liabilities.Total.StringFixed(2) != "300.00" {
		t.Fatalf("liabilities total = %s", bs.Liabilities.Total)
	}
	if bs.TotalLiabilitiesAndEquity.StringFixed(2) != "300.00" {
		t.Fatalf("liabilities+equity = %s", bs.TotalLiabilitiesAndEquity)
	}
}

func TestStatementsRefuseUnbalancedLedger(t *testing.T) {
	coa := DefaultChart()
	agg := NewAggregator(coa)
	tb, err := agg.MergeExtraction(NewTrialBalance(), DocumentExtraction{
		BatchID:  "batch-1",
		Turnover: d("900"),
	})
	if err != nil {
		t.Fatalf("extraction merge: %v", err)
	}

	var unbalanced *UnbalancedError
	if _, err := BuildProfitAndLoss(tb, coa); !errors.As(err, &unbalanced) {
		t.Fatalf("expected UnbalancedError, got %v", err)
	}
	if unbalanced.Difference.StringFixed(2) != "900.00" {
		t.Fatalf("difference = %s", unbalanced.Difference)
	}
	if _, err := BuildBalanceSheet(tb, coa); !errors.As(err, &unbalanced) {
		t.Fatalf("expected UnbalancedError, got %v", err)
	}
}
