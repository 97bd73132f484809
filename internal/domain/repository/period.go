package repository

import "strings"

// Period represents a trading timeframe bucket.
type Period string

const (
	Period15m Period = "15m"
	Period1h  Period = "1h"
	Period4h  Period = "4h"
	Period1d  Period = "1d"
)

// Minutes returns the duration of one candle of this period in minutes.
// Unrecognized periods fold to one minute.
func (p Period) Minutes() int {
	switch p {
	case Period15m:
		return 15
	case Period1h:
		return 60
	case Period4h:
		return 4 * 60
	case Period1d:
		return 24 * 60
	default:
		return 1
	}
}

// IsValidPeriod returns true if p is a supported period.
func IsValidPeriod(p Period) bool {
	switch p {
	case Period15m, Period1h, Period4h, Period1d:
		return true
	default:
		return false
	}
}

// DefaultPeriods returns the full period set in ascending duration order.
func DefaultPeriods() []Period {
	return []Period{Period15m, Period1h, Period4h, Period1d}
}

// ParsePeriods splits a comma separated list into periods, keeping order and
// dropping empty items. Unknown values are kept as-is; the minute mapping
// folds them to 1m downstream.
func ParsePeriods(s string) []Period {
	if s == "" {
		return DefaultPeriods()
	}
	parts := strings.Split(s, ",")
	out := make([]Period, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, Period(p))
	}
	if len(out) == 0 {
		return DefaultPeriods()
	}
	return out
}
