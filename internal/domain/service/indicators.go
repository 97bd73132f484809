package service

import (
	"context"

	"TaPulse/internal/domain/models"
)

// IndicatorEngine computes the named indicator set and its analytic helpers.
type IndicatorEngine interface {
	// ComputeAll computes every predefined indicator from candles in
	// chronological order. Short inputs degrade (zero-padded heads), they
	// never error.
	ComputeAll(ctx context.Context, candles []models.Candle) (map[string]models.IndicatorSeries, error)

	// TrendDirection classifies the slope of a short window by comparing
	// its first and last values.
	TrendDirection(window []float64) models.Trend

	// CrossingDistance returns how many elements back the series' sign
	// last flipped relative to the final value, and false when it never
	// does.
	CrossingDistance(series []float64) (int, bool)

	// BollingerPercent returns the position of mid between lower and upper
	// as a 0..1 fraction (values outside the bands fall outside 0..1).
	BollingerPercent(mid, upper, lower float64) float64
}
