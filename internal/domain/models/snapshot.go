package models

// Trend is a coarse classification of an indicator's recent slope.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// MACDValue is one element of a MACD series.
type MACDValue struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// BandsValue is one element of a Bollinger Bands series.
type BandsValue struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// SeriesShape tags which slice of an IndicatorSeries is populated.
type SeriesShape string

const (
	ShapeScalar SeriesShape = "scalar"
	ShapeMACD   SeriesShape = "macd"
	ShapeBands  SeriesShape = "bands"
)

// IndicatorSeries is one named indicator output aligned one-to-one with the
// chronological candle sequence it was computed from. Exactly one of the
// value slices is populated, according to Shape.
type IndicatorSeries struct {
	Shape  SeriesShape
	Scalar []float64
	MACD   []MACDValue
	Bands  []BandsValue
}

// Len returns the series length.
func (s IndicatorSeries) Len() int {
	switch s.Shape {
	case ShapeMACD:
		return len(s.MACD)
	case ShapeBands:
		return len(s.Bands)
	default:
		return len(s.Scalar)
	}
}

// Last returns the final series element, or nil for an empty series.
func (s IndicatorSeries) Last() interface{} {
	n := s.Len()
	if n == 0 {
		return nil
	}
	switch s.Shape {
	case ShapeMACD:
		return s.MACD[n-1]
	case ShapeBands:
		return s.Bands[n-1]
	default:
		return s.Scalar[n-1]
	}
}

// IndicatorView is the flattened per-indicator entry exposed to consumers.
// Crossed fields are only set when the series has a sign flip; Percent is
// only set for Bollinger Bands with usable bounds.
type IndicatorView struct {
	Value        interface{} `json:"value"`
	Trend        Trend       `json:"trend,omitempty"`
	Crossed      int         `json:"crossed,omitempty"`
	CrossedIndex int         `json:"crossed_index,omitempty"`
	Percent      *float64    `json:"percent,omitempty"`
}

// SymbolRow is the consolidated per-symbol entry of an aggregate snapshot.
// TA is keyed by period, then by indicator name.
type SymbolRow struct {
	Symbol           string                              `json:"symbol"`
	Exchange         string                              `json:"exchange"`
	Ticker           TickerSnapshot                      `json:"ticker"`
	TA               map[string]map[string]IndicatorView `json:"ta"`
	PercentageChange *float64                            `json:"percentage_change,omitempty"`
}

// AggregateResponse is the full snapshot across all symbols and periods.
type AggregateResponse struct {
	Rows    map[string]*SymbolRow `json:"rows"`
	Periods []string              `json:"periods"`
}
