package domain

import (
	"strings"
	"time"
)

const PeriodLayout = "2006-01"

// Period is a calendar month in UTC, [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

// ParsePeriod reads a YYYY-MM month. An empty value selects the month containing now.
func ParsePeriod(raw string, now time.Time) (Period, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		now = now.UTC()
		return monthOf(now.Year(), now.Month()), nil
	}
	parsed, err := time.Parse(PeriodLayout, raw)
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	return monthOf(parsed.Year(), parsed.Month()), nil
}

func monthOf(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

func (p Period) String() string {
	return p.Start.Format(PeriodLayout)
}
