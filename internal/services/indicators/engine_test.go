package indicators

import (
	"context"
	"testing"

	"TaPulse/internal/domain/models"
)

func candleRamp(n int, start, step float64) []models.Candle {
	out := make([]models.Candle, n)
	price := start
	for i := range out {
		out[i] = models.Candle{
			Time:   int64(1700000000 + i*3600),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1000,
		}
		price += step
	}
	return out
}

var indicatorNames = []string{
	"sma_200", "sma_50", "ema_21", "ema_9", "rsi", "cci", "mfi", "ao", "macd", "bollinger_bands",
}

func TestComputeAllProducesFullSet(t *testing.T) {
	e := NewEngine(DefaultConfig())
	candles := candleRamp(26, 100, 1)

	out, err := e.ComputeAll(context.Background(), candles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range indicatorNames {
		series, ok := out[name]
		if !ok {
			t.Fatalf("missing indicator %q", name)
		}
		if series.Len() != len(candles) {
			t.Fatalf("%q: expected length %d, got %d", name, len(candles), series.Len())
		}
	}
	if out["macd"].Shape != models.ShapeMACD {
		t.Fatalf("macd has wrong shape %q", out["macd"].Shape)
	}
	if out["bollinger_bands"].Shape != models.ShapeBands {
		t.Fatalf("bollinger has wrong shape %q", out["bollinger_bands"].Shape)
	}
}

func TestComputeAllShortInputZeroPads(t *testing.T) {
	e := NewEngine(DefaultConfig())
	candles := candleRamp(5, 100, 1)

	out, err := e.ComputeAll(context.Background(), candles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range indicatorNames {
		if got := out[name].Len(); got != 5 {
			t.Fatalf("%q: expected aligned length 5, got %d", name, got)
		}
	}
	// 200-period SMA cannot be computed from 5 candles
	for i, v := range out["sma_200"].Scalar {
		if v != 0 {
			t.Fatalf("expected zero-padded sma_200, got %v at %d", v, i)
		}
	}
	if last := out["macd"].MACD[4]; last.MACD != 0 || last.Histogram != 0 {
		t.Fatalf("expected zero macd on short input, got %+v", last)
	}
}

func TestComputeAllEmptyInput(t *testing.T) {
	e := NewEngine(DefaultConfig())

	out, err := e.ComputeAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range indicatorNames {
		if out[name].Len() != 0 {
			t.Fatalf("%q: expected empty series", name)
		}
	}
}

func TestAwesomeOscillatorRisingMarket(t *testing.T) {
	e := NewEngine(DefaultConfig())
	candles := candleRamp(40, 100, 1)

	out, err := e.ComputeAll(context.Background(), candles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ao := out["ao"].Scalar
	// in a steadily rising market the fast SMA sits above the slow one
	if last := ao[len(ao)-1]; last <= 0 {
		t.Fatalf("expected positive ao in rising market, got %v", last)
	}
	// before the slow lookback is filled the series stays zero
	if ao[10] != 0 {
		t.Fatalf("expected zero ao inside lookback warmup, got %v", ao[10])
	}
}
