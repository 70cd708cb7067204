package shared

import (
	"errors"
	"testing"
	"time"
)

func TestParsePeriodReturnsMonthRange(t *testing.T) {
	start, end, err := ParsePeriod("2025-06")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !start.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %s", start)
	}
	if !end.Equal(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end %s", end)
	}
}

func TestParsePeriodLeapFebruary(t *testing.T) {
	_, end, err := ParsePeriod("2024-02")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if end.Day() != 29 {
		t.Fatalf("expected leap-year end day 29, got %d", end.Day())
	}
}

func TestParsePeriodRejectsMalformedLabels(t *testing.T) {
	for _, period := range []string{"", "June 2025", "2025-6", "2025-13", "2025-06-01", "25-06"} {
		if _, _, err := ParsePeriod(period); !errors.Is(err, ErrInvalidPeriod) {
			t.Fatalf("expected ErrInvalidPeriod for %q, got %v", period, err)
		}
	}
}
