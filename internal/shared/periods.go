package shared

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrInvalidPeriod indicates a malformed accounting period identifier.
var ErrInvalidPeriod = errors.New("invalid accounting period")

var periodPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ParsePeriod validates a YYYY-MM accounting period label and returns
// the covered date range. The end date is the last day of the month.
func ParsePeriod(period string) (start, end time.Time, err error) {
	if !periodPattern.MatchString(period) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	start, err = time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	end = start.AddDate(0, 1, -1)
	return start, end, nil
}
