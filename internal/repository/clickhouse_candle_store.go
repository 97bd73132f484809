package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"TaPulse/internal/domain/models"
	domrepo "TaPulse/internal/domain/repository"
	pkgch "TaPulse/pkg/clickhouse"
	applogger "TaPulse/pkg/logger"
)

// CHCandleStore implements CandleRepository backed by ClickHouse.
type CHCandleStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHCandleStore(ch *pkgch.Client) *CHCandleStore {
	return &CHCandleStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHCandleStore) SetLogger(l *applogger.Logger) { s.l = l }

// GetLookbacks returns the most recent limit candles, newest first. Zero rows
// is a valid result for pairs with no history yet.
func (s *CHCandleStore) GetLookbacks(ctx context.Context, exchange, symbol string, period domrepo.Period, limit int) ([]models.Candle, error) {
	start := time.Now()
	table := tableForPeriod(period)
	const qtpl = `
        SELECT time, open, high, low, close, volume
        FROM %s
        WHERE exchange = ? AND symbol = ?
        ORDER BY time DESC
        LIMIT ?
    `
	q := fmt.Sprintf(qtpl, table)
	rows, err := s.db.QueryContext(ctx, q, exchange, symbol, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse lookbacks query error",
				applogger.String("table", table),
				applogger.String("exchange", exchange),
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get lookbacks: %w", err)
	}
	defer rows.Close()

	out := make([]models.Candle, 0, limit)
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Time, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse lookbacks scan error",
					applogger.String("table", table),
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse lookbacks rows error",
				applogger.String("table", table),
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse lookbacks ok",
			applogger.String("table", table),
			applogger.String("exchange", exchange),
			applogger.String("symbol", symbol),
			applogger.String("period", string(period)),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func tableForPeriod(p domrepo.Period) string {
	switch p {
	case domrepo.Period15m:
		return "tapulse.candles_15m"
	case domrepo.Period1h:
		return "tapulse.candles_1h"
	case domrepo.Period4h:
		return "tapulse.candles_4h"
	case domrepo.Period1d:
		return "tapulse.candles_1d"
	default:
		// unknown periods fold to the hourly table
		return "tapulse.candles_1h"
	}
}
