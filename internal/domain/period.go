package domain

import (
	"fmt"
	"strings"
	"time"
)

// Period is a lookback window understood by the market data providers.
type Period string

const (
	Period5D  Period = "5d"
	Period1Mo Period = "1mo"
	Period3Mo Period = "3mo"
	Period6Mo Period = "6mo"
	Period1Y  Period = "1y"
	Period5Y  Period = "5y"

	DefaultPeriod = Period1Mo
	// ShortWindow feeds latest/previous close and is independent of the
	// chart period.
	ShortWindow = Period5D
)

// ChartPeriods lists the lookbacks a caller may choose for the chart.
var ChartPeriods = []Period{Period1Mo, Period3Mo, Period6Mo, Period1Y, Period5Y}

// ParsePeriod accepts one of ChartPeriods; an empty string yields DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultPeriod, nil
	}
	for _, p := range ChartPeriods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported period %q: %w", s, ErrInvalidPeriod)
}

func (p Period) String() string {
	return string(p)
}

// Start is the first calendar day the period covers when it ends at now.
// The short window reaches back a full week so it spans five sessions.
func (p Period) Start(now time.Time) time.Time {
	switch p {
	case Period5D:
		return now.AddDate(0, 0, -7)
	case Period3Mo:
		return now.AddDate(0, -3, 0)
	case Period6Mo:
		return now.AddDate(0, -6, 0)
	case Period1Y:
		return now.AddDate(-1, 0, 0)
	case Period5Y:
		return now.AddDate(-5, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}
