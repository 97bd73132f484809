package usecase

import (
	"context"

	"TaPulse/internal/domain/models"
	domrepo "TaPulse/internal/domain/repository"
)

// QuoteCollector pumps live quotes from the market stream into the ticker
// store so snapshot rows can carry a live ticker instead of a synthetic one.
type QuoteCollector struct {
	stream  domrepo.QuoteStream
	sink    domrepo.QuoteSink
	metrics domrepo.Metrics
}

func NewQuoteCollector(stream domrepo.QuoteStream, sink domrepo.QuoteSink, metrics domrepo.Metrics) *QuoteCollector {
	return &QuoteCollector{stream: stream, sink: sink, metrics: metrics}
}

// IsConnected returns true if the market stream is connected.
func (c *QuoteCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *QuoteCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	qCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, qCh, errCh)
	return nil
}

func (c *QuoteCollector) consume(ctx context.Context, qCh <-chan *models.Quote, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case q := <-qCh:
			if q == nil {
				continue
			}
			c.sink.Put(q)
			c.metrics.RecordLastPrice(q.Symbol, q.Last)
		}
	}
}

func (c *QuoteCollector) Stop() error { return c.stream.Close() }
