package repository

import (
	"context"

	"TaPulse/internal/domain/models"
)

// CandleRepository provides read-only access to stored candles.
type CandleRepository interface {
	// GetLookbacks returns the most recent limit candles for the pair,
	// newest first. A short or empty result is not an error.
	GetLookbacks(ctx context.Context, exchange, symbol string, period Period, limit int) ([]models.Candle, error)
}

// TickerStore exposes the freshest live quote per pair.
type TickerStore interface {
	Get(exchange, symbol string) (models.TickerSnapshot, bool)
}

// SymbolRegistry exposes the configured watchlist, in configuration order.
// Duplicate symbol strings across exchanges are permitted.
type SymbolRegistry interface {
	List() []models.SymbolRef
}

// QuoteStream is a live market quote feed.
type QuoteStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Quote, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// QuoteSink consumes live quotes.
type QuoteSink interface {
	Put(q *models.Quote)
}

// SnapshotPublisher pushes computed snapshot rows to the alerting layer.
type SnapshotPublisher interface {
	PublishRow(ctx context.Context, row *models.SymbolRow) error
	Close() error
}

type Metrics interface {
	RecordMessageSent(backend, symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
