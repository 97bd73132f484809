package usecase

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"TaPulse/internal/domain/models"
	domrepo "TaPulse/internal/domain/repository"
	"TaPulse/internal/services/indicators"
)

type fakeCandles struct {
	data map[string][]models.Candle
	err  error
}

func candleKey(exchange, symbol string, period domrepo.Period) string {
	return fmt.Sprintf("%s:%s:%s", exchange, symbol, period)
}

func (f *fakeCandles) GetLookbacks(_ context.Context, exchange, symbol string, period domrepo.Period, _ int) ([]models.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data[candleKey(exchange, symbol, period)], nil
}

type fakeRegistry struct {
	refs []models.SymbolRef
}

func (f *fakeRegistry) List() []models.SymbolRef { return f.refs }

type fakeTickers struct {
	m map[string]models.TickerSnapshot
}

func (f *fakeTickers) Get(exchange, symbol string) (models.TickerSnapshot, bool) {
	t, ok := f.m[exchange+":"+symbol]
	return t, ok
}

// fakeEngine returns canned indicator series while keeping the real
// post-processing math.
type fakeEngine struct {
	*indicators.Engine
	ta map[string]models.IndicatorSeries
}

func (f *fakeEngine) ComputeAll(_ context.Context, _ []models.Candle) (map[string]models.IndicatorSeries, error) {
	return f.ta, nil
}

func newFakeEngine(ta map[string]models.IndicatorSeries) *fakeEngine {
	return &fakeEngine{Engine: indicators.NewEngine(indicators.DefaultConfig()), ta: ta}
}

func twoCandles(lastClose, dayAgoClose float64) []models.Candle {
	now := time.Now()
	return []models.Candle{
		{Time: now.Unix(), Close: lastClose, Open: lastClose, High: lastClose, Low: lastClose},
		{Time: now.Add(-24 * time.Hour).Unix(), Close: dayAgoClose, Open: dayAgoClose, High: dayAgoClose, Low: dayAgoClose},
	}
}

func TestComputeSnapshotDedupLastWins(t *testing.T) {
	candles := &fakeCandles{data: map[string][]models.Candle{
		candleKey("binance", "BTCUSDT", domrepo.Period1h):  twoCandles(100, 90),
		candleKey("coinbase", "BTCUSDT", domrepo.Period1h): twoCandles(110, 100),
		candleKey("binance", "ETHUSDT", domrepo.Period1h):  twoCandles(50, 40),
	}}
	reg := &fakeRegistry{refs: []models.SymbolRef{
		{Exchange: "binance", Symbol: "BTCUSDT"},
		{Exchange: "binance", Symbol: "ETHUSDT"},
		{Exchange: "coinbase", Symbol: "BTCUSDT"},
	}}
	engine := newFakeEngine(map[string]models.IndicatorSeries{
		"rsi": {Shape: models.ShapeScalar, Scalar: []float64{40, 60}},
	})
	uc := NewSnapshotUseCase(candles, reg, &fakeTickers{}, engine)

	res, err := uc.ComputeSnapshot(context.Background(), []domrepo.Period{domrepo.Period1h})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
	btc := res.Rows["BTCUSDT"]
	if btc == nil {
		t.Fatalf("missing BTCUSDT row")
	}
	if btc.Exchange != "coinbase" {
		t.Fatalf("expected later watchlist entry to win, got exchange %q", btc.Exchange)
	}
	if btc.Ticker.Last != 110 {
		t.Fatalf("expected provisional ticker from coinbase candles, got %v", btc.Ticker.Last)
	}
}

func TestComputeSnapshotSkipsEmptyHistory(t *testing.T) {
	candles := &fakeCandles{data: map[string][]models.Candle{}}
	reg := &fakeRegistry{refs: []models.SymbolRef{{Exchange: "binance", Symbol: "BTCUSDT"}}}
	engine := newFakeEngine(nil)
	uc := NewSnapshotUseCase(candles, reg, &fakeTickers{}, engine)

	res, err := uc.ComputeSnapshot(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(res.Rows))
	}
	if len(res.Periods) != 4 {
		t.Fatalf("expected default periods echoed, got %v", res.Periods)
	}
}

func TestComputeSnapshotFailsOnAnyError(t *testing.T) {
	candles := &fakeCandles{err: fmt.Errorf("clickhouse down")}
	reg := &fakeRegistry{refs: []models.SymbolRef{{Exchange: "binance", Symbol: "BTCUSDT"}}}
	uc := NewSnapshotUseCase(candles, reg, &fakeTickers{}, newFakeEngine(nil))

	if _, err := uc.ComputeSnapshot(context.Background(), []domrepo.Period{domrepo.Period1h}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestComputeSnapshotPercentageChange(t *testing.T) {
	candles := &fakeCandles{data: map[string][]models.Candle{
		candleKey("binance", "BTCUSDT", domrepo.Period1h): twoCandles(110, 100),
	}}
	reg := &fakeRegistry{refs: []models.SymbolRef{{Exchange: "binance", Symbol: "BTCUSDT"}}}
	uc := NewSnapshotUseCase(candles, reg, &fakeTickers{}, newFakeEngine(nil))

	res, err := uc.ComputeSnapshot(context.Background(), []domrepo.Period{domrepo.Period1h})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row := res.Rows["BTCUSDT"]
	if row.PercentageChange == nil {
		t.Fatalf("expected percentage change")
	}
	if math.Abs(*row.PercentageChange-10) > 1e-9 {
		t.Fatalf("expected +10%%, got %v", *row.PercentageChange)
	}
}

func TestComputeSnapshotNoReferenceCandleNoChange(t *testing.T) {
	now := time.Now()
	// reference candle sits well outside the tolerance band
	candles := &fakeCandles{data: map[string][]models.Candle{
		candleKey("binance", "BTCUSDT", domrepo.Period1h): {
			{Time: now.Unix(), Close: 110},
			{Time: now.Add(-26 * time.Hour).Unix(), Close: 100},
		},
	}}
	reg := &fakeRegistry{refs: []models.SymbolRef{{Exchange: "binance", Symbol: "BTCUSDT"}}}
	uc := NewSnapshotUseCase(candles, reg, &fakeTickers{}, newFakeEngine(nil))

	res, err := uc.ComputeSnapshot(context.Background(), []domrepo.Period{domrepo.Period1h})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Rows["BTCUSDT"].PercentageChange != nil {
		t.Fatalf("expected nil percentage change")
	}
}

func TestComputeSnapshotCrossingDistance(t *testing.T) {
	engine := newFakeEngine(map[string]models.IndicatorSeries{
		"macd": {Shape: models.ShapeMACD, MACD: []models.MACDValue{
			{Histogram: 1}, {Histogram: -2}, {Histogram: 3},
		}},
		"ao": {Shape: models.ShapeScalar, Scalar: []float64{1, 2, 3}},
	})
	candles := &fakeCandles{data: map[string][]models.Candle{
		candleKey("binance", "BTCUSDT", domrepo.Period1h): twoCandles(110, 100),
	}}
	reg := &fakeRegistry{refs: []models.SymbolRef{{Exchange: "binance", Symbol: "BTCUSDT"}}}
	uc := NewSnapshotUseCase(candles, reg, &fakeTickers{}, engine)

	res, err := uc.ComputeSnapshot(context.Background(), []domrepo.Period{domrepo.Period1h})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ta := res.Rows["BTCUSDT"].TA["1h"]

	macd := ta["macd"]
	if macd.CrossedIndex != 1 {
		t.Fatalf("expected macd crossed index 1, got %d", macd.CrossedIndex)
	}
	if macd.Crossed != 60 {
		t.Fatalf("expected macd crossed 60 minutes, got %d", macd.Crossed)
	}
	if macd.Trend != models.TrendUp {
		t.Fatalf("expected macd trend up, got %q", macd.Trend)
	}

	ao := ta["ao"]
	if ao.Crossed != 0 || ao.CrossedIndex != 0 {
		t.Fatalf("expected no crossing on monotonic ao, got %d/%d", ao.Crossed, ao.CrossedIndex)
	}
	// ao also belongs to the trend group, whose reversed five-value window
	// ([3 2 1]) overrides the crossing trend
	if ao.Trend != models.TrendDown {
		t.Fatalf("expected ao trend down, got %q", ao.Trend)
	}
}

func TestComputeSnapshotBollingerPercent(t *testing.T) {
	engine := newFakeEngine(map[string]models.IndicatorSeries{
		"bollinger_bands": {Shape: models.ShapeBands, Bands: []models.BandsValue{
			{Upper: 110, Middle: 100, Lower: 90},
		}},
	})
	candles := &fakeCandles{data: map[string][]models.Candle{
		candleKey("binance", "BTCUSDT", domrepo.Period1h): twoCandles(100, 100),
	}}
	reg := &fakeRegistry{refs: []models.SymbolRef{{Exchange: "binance", Symbol: "BTCUSDT"}}}
	uc := NewSnapshotUseCase(candles, reg, &fakeTickers{}, engine)

	res, err := uc.ComputeSnapshot(context.Background(), []domrepo.Period{domrepo.Period1h})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bb := res.Rows["BTCUSDT"].TA["1h"]["bollinger_bands"]
	if bb.Percent == nil {
		t.Fatalf("expected bollinger percent")
	}
	// provisional ticker mid is the last close (100): (100-90)/(110-90) = 50%
	if math.Abs(*bb.Percent-50) > 1e-9 {
		t.Fatalf("expected 50, got %v", *bb.Percent)
	}
}

func TestComputeSnapshotZeroBandsOmitPercent(t *testing.T) {
	engine := newFakeEngine(map[string]models.IndicatorSeries{
		"bollinger_bands": {Shape: models.ShapeBands, Bands: []models.BandsValue{
			{Upper: 0, Middle: 0, Lower: 0},
		}},
	})
	candles := &fakeCandles{data: map[string][]models.Candle{
		candleKey("binance", "BTCUSDT", domrepo.Period1h): twoCandles(100, 100),
	}}
	reg := &fakeRegistry{refs: []models.SymbolRef{{Exchange: "binance", Symbol: "BTCUSDT"}}}
	uc := NewSnapshotUseCase(candles, reg, &fakeTickers{}, engine)

	res, err := uc.ComputeSnapshot(context.Background(), []domrepo.Period{domrepo.Period1h})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Rows["BTCUSDT"].TA["1h"]["bollinger_bands"].Percent != nil {
		t.Fatalf("expected nil percent for zero bands")
	}
}

func TestComputeSnapshotLiveTickerWins(t *testing.T) {
	engine := newFakeEngine(map[string]models.IndicatorSeries{
		"rsi": {Shape: models.ShapeScalar, Scalar: []float64{40, 60}},
	})
	candles := &fakeCandles{data: map[string][]models.Candle{
		candleKey("binance", "BTCUSDT", domrepo.Period1h): twoCandles(100, 100),
	}}
	reg := &fakeRegistry{refs: []models.SymbolRef{{Exchange: "binance", Symbol: "BTCUSDT"}}}
	live := &fakeTickers{m: map[string]models.TickerSnapshot{
		"binance:BTCUSDT": {Exchange: "binance", Symbol: "BTCUSDT", Bid: 101, Ask: 103, Last: 102},
	}}
	uc := NewSnapshotUseCase(candles, reg, live, engine)

	res, err := uc.ComputeSnapshot(context.Background(), []domrepo.Period{domrepo.Period1h})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row := res.Rows["BTCUSDT"]
	if row.Ticker.Bid != 101 || row.Ticker.Ask != 103 {
		t.Fatalf("expected live ticker, got %+v", row.Ticker)
	}
}

func TestComputeSnapshotTrendGroupWindow(t *testing.T) {
	// series is chronological; trend is taken over the reversed slice's
	// final five values, i.e. the oldest five, oldest last
	engine := newFakeEngine(map[string]models.IndicatorSeries{
		"rsi": {Shape: models.ShapeScalar, Scalar: []float64{70, 60, 50, 40, 30, 20, 10}},
	})
	candles := &fakeCandles{data: map[string][]models.Candle{
		candleKey("binance", "BTCUSDT", domrepo.Period1h): twoCandles(100, 100),
	}}
	reg := &fakeRegistry{refs: []models.SymbolRef{{Exchange: "binance", Symbol: "BTCUSDT"}}}
	uc := NewSnapshotUseCase(candles, reg, &fakeTickers{}, engine)

	res, err := uc.ComputeSnapshot(context.Background(), []domrepo.Period{domrepo.Period1h})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rsi := res.Rows["BTCUSDT"].TA["1h"]["rsi"]
	// reversed: [10 20 30 40 50 60 70], last five [30..70]: rising
	if rsi.Trend != models.TrendUp {
		t.Fatalf("expected up, got %q", rsi.Trend)
	}
	if rsi.Value.(float64) != 10 {
		t.Fatalf("expected last chronological value 10, got %v", rsi.Value)
	}
}

func TestDedupSymbols(t *testing.T) {
	refs := []models.SymbolRef{
		{Exchange: "binance", Symbol: "BTCUSDT"},
		{Exchange: "binance", Symbol: "ETHUSDT"},
		{Exchange: "coinbase", Symbol: "BTCUSDT"},
	}
	out := dedupSymbols(refs)
	if len(out) != 2 {
		t.Fatalf("expected 2, got %d", len(out))
	}
	if out[0].Symbol != "BTCUSDT" || out[0].Exchange != "coinbase" {
		t.Fatalf("expected BTCUSDT from coinbase first, got %+v", out[0])
	}
	if out[1].Symbol != "ETHUSDT" {
		t.Fatalf("expected ETHUSDT second, got %+v", out[1])
	}
}
