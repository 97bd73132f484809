package indicators

import (
	"context"

	"github.com/markcheno/go-talib"

	"TaPulse/internal/domain/models"
)

// Config holds lookback settings for the predefined indicator set.
type Config struct {
	SMASlow    int
	SMAFast    int
	EMALong    int
	EMAShort   int
	RSIPeriod  int
	CCIPeriod  int
	MFIPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	BBPeriod   int
	BBStdDev   float64
	AOFast     int
	AOSlow     int
}

// DefaultConfig returns the conventional indicator periods.
func DefaultConfig() Config {
	return Config{
		SMASlow:    200,
		SMAFast:    50,
		EMALong:    21,
		EMAShort:   9,
		RSIPeriod:  14,
		CCIPeriod:  20,
		MFIPeriod:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		BBPeriod:   20,
		BBStdDev:   2.0,
		AOFast:     5,
		AOSlow:     34,
	}
}

// Engine computes the predefined indicator set with go-talib.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// ComputeAll computes every predefined indicator from chronological candles.
// Series are aligned one-to-one with the input; indicators whose lookback
// exceeds the input length come back zero-padded rather than erroring.
func (e *Engine) ComputeAll(_ context.Context, candles []models.Candle) (map[string]models.IndicatorSeries, error) {
	n := len(candles)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	medians := make([]float64, n)
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
		volumes[i] = c.Volume
		medians[i] = (c.High + c.Low) / 2
	}

	out := map[string]models.IndicatorSeries{
		"sma_200":         scalar(guarded(n, e.cfg.SMASlow, func() []float64 { return talib.Sma(closes, e.cfg.SMASlow) })),
		"sma_50":          scalar(guarded(n, e.cfg.SMAFast, func() []float64 { return talib.Sma(closes, e.cfg.SMAFast) })),
		"ema_21":          scalar(guarded(n, e.cfg.EMALong, func() []float64 { return talib.Ema(closes, e.cfg.EMALong) })),
		"ema_9":           scalar(guarded(n, e.cfg.EMAShort, func() []float64 { return talib.Ema(closes, e.cfg.EMAShort) })),
		"rsi":             scalar(guarded(n, e.cfg.RSIPeriod+1, func() []float64 { return talib.Rsi(closes, e.cfg.RSIPeriod) })),
		"cci":             scalar(guarded(n, e.cfg.CCIPeriod, func() []float64 { return talib.Cci(highs, lows, closes, e.cfg.CCIPeriod) })),
		"mfi":             scalar(guarded(n, e.cfg.MFIPeriod+1, func() []float64 { return talib.Mfi(highs, lows, closes, volumes, e.cfg.MFIPeriod) })),
		"ao":              scalar(e.awesomeOscillator(medians)),
		"macd":            e.macd(closes),
		"bollinger_bands": e.bollinger(closes),
	}
	return out, nil
}

// awesomeOscillator is SMA(fast) - SMA(slow) of the candle median price.
// Not part of TA-Lib proper.
func (e *Engine) awesomeOscillator(medians []float64) []float64 {
	n := len(medians)
	if n < e.cfg.AOSlow {
		return make([]float64, n)
	}
	fast := talib.Sma(medians, e.cfg.AOFast)
	slow := talib.Sma(medians, e.cfg.AOSlow)
	out := make([]float64, n)
	for i := e.cfg.AOSlow - 1; i < n; i++ {
		out[i] = fast[i] - slow[i]
	}
	return out
}

func (e *Engine) macd(closes []float64) models.IndicatorSeries {
	n := len(closes)
	series := models.IndicatorSeries{Shape: models.ShapeMACD, MACD: make([]models.MACDValue, n)}
	if n < e.cfg.MACDSlow {
		return series
	}
	macd, signal, hist := talib.Macd(closes, e.cfg.MACDFast, e.cfg.MACDSlow, e.cfg.MACDSignal)
	for i := 0; i < n; i++ {
		series.MACD[i] = models.MACDValue{MACD: macd[i], Signal: signal[i], Histogram: hist[i]}
	}
	return series
}

func (e *Engine) bollinger(closes []float64) models.IndicatorSeries {
	n := len(closes)
	series := models.IndicatorSeries{Shape: models.ShapeBands, Bands: make([]models.BandsValue, n)}
	if n < e.cfg.BBPeriod {
		return series
	}
	upper, middle, lower := talib.BBands(closes, e.cfg.BBPeriod, e.cfg.BBStdDev, e.cfg.BBStdDev, talib.SMA)
	for i := 0; i < n; i++ {
		series.Bands[i] = models.BandsValue{Upper: upper[i], Middle: middle[i], Lower: lower[i]}
	}
	return series
}

func scalar(values []float64) models.IndicatorSeries {
	return models.IndicatorSeries{Shape: models.ShapeScalar, Scalar: values}
}

// guarded runs f only when the input is long enough for its lookback,
// otherwise it returns an aligned zero series. go-talib indexes into the
// full lookback window unconditionally, so short inputs must not reach it.
func guarded(n, min int, f func() []float64) []float64 {
	if n < min {
		return make([]float64, n)
	}
	return f()
}
