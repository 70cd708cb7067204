package ledger

import "testing"

func TestClassifyBucketsNetBalances(t *testing.T) {
	agg := NewAggregator(DefaultChart())
	coa := DefaultChart()
	tb := NewTrialBalance()

	entries := []JournalEntry{
		testEntry(
			JournalLine{AccountCode: "1000", Debit: d("10000")},
			JournalLine{AccountCode: "3000", Credit: d("10000")},
		),
		testEntry(
			JournalLine{AccountCode: "1100", Debit: d("6000")},
			JournalLine{AccountCode: "4000", Credit: d("6000")},
		),
		testEntry(
			JournalLine{AccountCode: "5000", Debit: d("2500")},
			JournalLine{AccountCode: "2000", Credit: d("2500")},
		),
	}
	for _, e := range entries {
		var err error
		tb, err = agg.Merge(tb, e, SourceManualJournal)
		if err != nil {
			t.Fatalf("merge: %v", err)
		}
	}

	summary, err := Classify(tb, coa)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if summary.Assets.StringFixed(2) != "16000.00" {
		t.Fatalf("assets = %s", summary.Assets)
	}
	if summary.Liabilities.StringFixed(2) != "2500.00" {
		t.Fatalf("liabilities = %s", summary.Liabilities)
	}
	if summary.Equity.StringFixed(2) != "10000.00" {
		t.Fatalf("equity = %s", summary.Equity)
	}
	if summary.Revenue.StringFixed(2) != "6000.00" {
		t.Fatalf("revenue = %s", summary.Revenue)
	}
	if summary.Expenses.StringFixed(2) != "2500.00" {
		t.Fatalf("expenses = %s", summary.Expenses)
	}
	if !summary.IsBalanced {
		t.Fatalf("expected balanced ledger, difference %s", summary.Difference)
	}
	if !summary.TotalDebits.Equal(summary.TotalCredits) {
		t.Fatalf("totals disagree: %s / %s", summary.TotalDebits, summary.TotalCredits)
	}
}

func TestClassifySurfacesDifferenceWhenUnbalanced(t *testing.T) {
	agg := NewAggregator(DefaultChart())
	coa := DefaultChart()

	// Single-sided extraction rows can leave the whole ledger unbalanced;
	// the classifier must report the exact difference, not just a flag.
	tb, err := agg.MergeExtraction(NewTrialBalance(), DocumentExtraction{
		BatchID:     "batch-1",
		Turnover:    d("1000"),
		CostOfSales: d("400"),
	})
	if err != nil {
		t.Fatalf("extraction merge: %v", err)
	}

	summary, err := Classify(tb, coa)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if summary.IsBalanced {
		t.Fatal("expected unbalanced ledger")
	}
	if summary.Difference.StringFixed(2) != "600.00" {
		t.Fatalf("difference = %s, want 600.00", summary.Difference)
	}
}
