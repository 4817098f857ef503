package calculator

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the calendar-date format used throughout the ledger.
const DateLayout = "2006-01-02"

// WeekNumber returns the 1-based week-of-year for the given date.
//
// Week 1 starts the first week containing or following Jan 1:
// ceil((daysSinceJan1 + weekday(Jan 1) + 1) / 7), with Sunday as weekday 0.
// This is not strictly ISO-8601 but must stay bit-compatible with data
// exported by earlier versions.
func WeekNumber(date time.Time) int {
	startOfYear := time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, date.Location())
	days := date.Sub(startOfYear).Hours() / 24
	return int(math.Ceil((days + float64(startOfYear.Weekday()) + 1) / 7))
}

// WeekNumberOf parses a ledger date string and returns its week number.
func WeekNumberOf(date string) (int, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", date, err)
	}
	return WeekNumber(t), nil
}
