package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TaPulse/internal/domain/models"
	domrepo "TaPulse/internal/domain/repository"
	domsvc "TaPulse/internal/domain/service"
)

// lookbackCount is the candle window fetched per (symbol, period) task.
// MACD-style signals need at least 26 points of history to stabilize.
const lookbackCount = 26

// changeTolerance widens the "24 hours ago" reference lookup to accommodate
// irregular candle close times.
const changeTolerance = 35 * time.Minute

// crossingGroup gets trend-over-last-two plus sign-crossing distance,
// trendGroup gets trend over the reversed series' final five values.
// "ao" belongs to both; the trend group's direction wins for it.
var trendGroup = map[string]bool{
	"ema_21": true,
	"ema_9":  true,
	"cci":    true,
	"rsi":    true,
	"ao":     true,
	"mfi":    true,
}

// SnapshotUseCase computes the consolidated TA snapshot across the
// configured watchlist and the requested periods.
type SnapshotUseCase struct {
	candles  domrepo.CandleRepository
	registry domrepo.SymbolRegistry
	tickers  domrepo.TickerStore
	engine   domsvc.IndicatorEngine
	timeout  time.Duration
}

func NewSnapshotUseCase(
	candles domrepo.CandleRepository,
	registry domrepo.SymbolRegistry,
	tickers domrepo.TickerStore,
	engine domsvc.IndicatorEngine,
) *SnapshotUseCase {
	return &SnapshotUseCase{
		candles:  candles,
		registry: registry,
		tickers:  tickers,
		engine:   engine,
		timeout:  15 * time.Second,
	}
}

// SymbolPeriodResult is one successfully computed (symbol, period) task.
type SymbolPeriodResult struct {
	Symbol           string
	Exchange         string
	Period           domrepo.Period
	TA               map[string]models.IndicatorSeries
	Ticker           models.TickerSnapshot
	PercentageChange *float64
}

// ComputeSnapshot fans out one retrieval-and-compute task per unique symbol
// and requested period, joins them all, and merges the results into a single
// response. The join is all-or-nothing: any failing task fails the call.
func (uc *SnapshotUseCase) ComputeSnapshot(ctx context.Context, periods []domrepo.Period) (*models.AggregateResponse, error) {
	if len(periods) == 0 {
		periods = domrepo.DefaultPeriods()
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	symbols := dedupSymbols(uc.registry.List())

	type task struct {
		res *SymbolPeriodResult
		err error
	}
	ch := make(chan task, len(symbols)*len(periods))
	var wg sync.WaitGroup

	for _, sym := range symbols {
		for _, period := range periods {
			wg.Add(1)
			go func(sym models.SymbolRef, period domrepo.Period) {
				defer wg.Done()
				res, err := uc.computePair(ctx, sym, period)
				ch <- task{res: res, err: err}
			}(sym, period)
		}
	}
	wg.Wait()
	close(ch)

	results := make(map[string]map[domrepo.Period]*SymbolPeriodResult, len(symbols))
	for t := range ch {
		if t.err != nil {
			return nil, t.err
		}
		if t.res == nil {
			continue
		}
		byPeriod := results[t.res.Symbol]
		if byPeriod == nil {
			byPeriod = make(map[domrepo.Period]*SymbolPeriodResult, len(periods))
			results[t.res.Symbol] = byPeriod
		}
		byPeriod[t.res.Period] = t.res
	}

	return uc.merge(symbols, periods, results), nil
}

// dedupSymbols filters the same pair on different exchanges; the last
// occurrence wins, keeping first-seen order.
func dedupSymbols(refs []models.SymbolRef) []models.SymbolRef {
	idx := make(map[string]int, len(refs))
	out := make([]models.SymbolRef, 0, len(refs))
	for _, r := range refs {
		if i, ok := idx[r.Symbol]; ok {
			out[i] = r
			continue
		}
		idx[r.Symbol] = len(out)
		out = append(out, r)
	}
	return out
}

func (uc *SnapshotUseCase) computePair(ctx context.Context, sym models.SymbolRef, period domrepo.Period) (*SymbolPeriodResult, error) {
	candles, err := uc.candles.GetLookbacks(ctx, sym.Exchange, sym.Symbol, period, lookbackCount)
	if err != nil {
		return nil, fmt.Errorf("lookbacks %s %s %s: %w", sym.Exchange, sym.Symbol, period, err)
	}
	if len(candles) == 0 {
		return nil, nil
	}

	change := dayChange(candles)

	// candles arrive newest-first; indicators want chronological order
	chrono := make([]models.Candle, len(candles))
	for i, c := range candles {
		chrono[len(candles)-1-i] = c
	}
	ta, err := uc.engine.ComputeAll(ctx, chrono)
	if err != nil {
		return nil, fmt.Errorf("indicators %s %s %s: %w", sym.Exchange, sym.Symbol, period, err)
	}

	last := candles[0].Close
	return &SymbolPeriodResult{
		Symbol:   sym.Symbol,
		Exchange: sym.Exchange,
		Period:   period,
		TA:       ta,
		Ticker: models.TickerSnapshot{
			Exchange: sym.Exchange,
			Symbol:   sym.Symbol,
			Bid:      last,
			Ask:      last,
			Last:     last,
			Time:     candles[0].Time,
		},
		PercentageChange: change,
	}, nil
}

// dayChange locates a candle whose timestamp falls within the tolerance band
// around 24 hours ago and computes the percentage change against the newest
// close. Nil when no candle falls in the band.
func dayChange(candles []models.Candle) *float64 {
	now := time.Now()
	rangeMin := now.Add(-24*time.Hour - changeTolerance).Unix()
	rangeMax := now.Add(-24*time.Hour + changeTolerance).Unix()
	for _, c := range candles {
		if c.Time > rangeMin && c.Time < rangeMax {
			change := 100*(candles[0].Close/c.Close) - 100
			return &change
		}
	}
	return nil
}

// merge combines task results into the final rows map. Iteration order is
// deterministic: symbols in dedup order, periods in requested order. The
// first merged result creates the row and chooses its ticker; the row's
// percentage change is the first non-absent change in requested-period order.
func (uc *SnapshotUseCase) merge(symbols []models.SymbolRef, periods []domrepo.Period, results map[string]map[domrepo.Period]*SymbolPeriodResult) *models.AggregateResponse {
	rows := make(map[string]*models.SymbolRow, len(symbols))
	for _, sym := range symbols {
		byPeriod := results[sym.Symbol]
		if byPeriod == nil {
			continue
		}
		for _, period := range periods {
			res := byPeriod[period]
			if res == nil {
				continue
			}
			row := rows[res.Symbol]
			if row == nil {
				ticker := res.Ticker
				if live, ok := uc.tickers.Get(res.Exchange, res.Symbol); ok {
					ticker = live
				}
				row = &models.SymbolRow{
					Symbol:   res.Symbol,
					Exchange: res.Exchange,
					Ticker:   ticker,
					TA:       make(map[string]map[string]models.IndicatorView, len(periods)),
				}
				rows[res.Symbol] = row
			}
			if row.PercentageChange == nil && res.PercentageChange != nil {
				row.PercentageChange = res.PercentageChange
			}
			row.TA[string(res.Period)] = uc.reshape(res, row.Ticker)
		}
	}

	periodStrs := make([]string, len(periods))
	for i, p := range periods {
		periodStrs[i] = string(p)
	}
	return &models.AggregateResponse{Rows: rows, Periods: periodStrs}
}

// reshape flattens one task's indicator series into per-indicator views.
func (uc *SnapshotUseCase) reshape(res *SymbolPeriodResult, ticker models.TickerSnapshot) map[string]models.IndicatorView {
	minutes := res.Period.Minutes()
	views := make(map[string]models.IndicatorView, len(res.TA))
	for name, series := range res.TA {
		view := models.IndicatorView{Value: series.Last()}

		switch name {
		case "macd":
			hist := make([]float64, len(series.MACD))
			for i, v := range series.MACD {
				hist[i] = v.Histogram
			}
			uc.applyCrossing(&view, hist, minutes)
		case "ao":
			uc.applyCrossing(&view, series.Scalar, minutes)
		case "bollinger_bands":
			if n := len(series.Bands); n > 0 {
				last := series.Bands[n-1]
				if last.Upper != 0 && last.Lower != 0 {
					p := uc.engine.BollingerPercent(ticker.Mid(), last.Upper, last.Lower) * 100
					view.Percent = &p
				}
			}
		}

		if trendGroup[name] {
			view.Trend = uc.engine.TrendDirection(lastReversed(series.Scalar, 5))
		}

		views[name] = view
	}
	return views
}

func (uc *SnapshotUseCase) applyCrossing(view *models.IndicatorView, series []float64, minutes int) {
	if len(series) >= 2 {
		view.Trend = uc.engine.TrendDirection(series[len(series)-2:])
	}
	if n, ok := uc.engine.CrossingDistance(series); ok && n > 0 {
		view.Crossed = n * minutes
		view.CrossedIndex = n
	}
}

// lastReversed returns the final n elements of the reversed series.
func lastReversed(series []float64, n int) []float64 {
	r := make([]float64, len(series))
	for i, v := range series {
		r[len(series)-1-i] = v
	}
	if len(r) > n {
		r = r[len(r)-n:]
	}
	return r
}
