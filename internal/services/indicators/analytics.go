package indicators

import "TaPulse/internal/domain/models"

// TrendDirection compares the first and last values of a short window.
func (e *Engine) TrendDirection(window []float64) models.Trend {
	if len(window) == 0 {
		return models.TrendFlat
	}
	first := window[0]
	last := window[len(window)-1]
	switch {
	case last > first:
		return models.TrendUp
	case last < first:
		return models.TrendDown
	default:
		return models.TrendFlat
	}
}

// CrossingDistance scans backward from the end of series for the most recent
// element whose sign differs from the final value's sign. It returns the
// distance in elements from the end, and false when the sign never differs.
func (e *Engine) CrossingDistance(series []float64) (int, bool) {
	n := len(series)
	if n < 2 {
		return 0, false
	}
	last := series[n-1]
	for i := n - 2; i >= 0; i-- {
		if (series[i] < 0) != (last < 0) {
			return n - 1 - i, true
		}
	}
	return 0, false
}

// BollingerPercent positions mid between lower and upper as a 0..1 fraction.
// Prices outside the bands land outside 0..1.
func (e *Engine) BollingerPercent(mid, upper, lower float64) float64 {
	width := upper - lower
	if width == 0 {
		return 0
	}
	return (mid - lower) / width
}
