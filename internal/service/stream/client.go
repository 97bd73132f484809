package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"TaPulse/internal/domain/models"
	drepo "TaPulse/internal/domain/repository"
	applogger "TaPulse/pkg/logger"

	"github.com/gorilla/websocket"
)

// Client implements a QuoteStream over a WebSocket feed of bid/ask quotes.
type Client struct {
	websocketURL   string
	pairs          []models.SymbolRef
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
	l         *applogger.Logger
}

// New creates a quote stream for the configured pairs.
func New(websocketURL string, pairs []models.SymbolRef, reconnectDelay, pingInterval time.Duration) drepo.QuoteStream {
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Client{
		websocketURL:   websocketURL,
		pairs:          pairs,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.websocketURL, nil)
	if err != nil {
		return fmt.Errorf("stream connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	if c.l != nil {
		c.l.Info("quote stream connected", applogger.String("url", c.websocketURL))
	}
	return nil
}

// Subscribe subscribes to the configured pairs.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("stream not connected")
	}
	for _, p := range c.pairs {
		msg := map[string]string{"type": "subscribe", "exchange": p.Exchange, "symbol": p.Symbol}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s:%s: %w", p.Exchange, p.Symbol, err)
		}
		if c.l != nil {
			c.l.Debug("subscribed",
				applogger.String("exchange", p.Exchange),
				applogger.String("symbol", p.Symbol))
		}
	}
	return nil
}

type wsQuote struct {
	E string  `json:"e"`
	S string  `json:"s"`
	B float64 `json:"b"`
	A float64 `json:"a"`
	L float64 `json:"l"`
	T int64   `json:"t"` // ms
}

type wsMessage struct {
	Type string    `json:"type"`
	Data []wsQuote `json:"data"`
}

// Read streams Quote events and errors until ctx is done or the socket fails.
func (c *Client) Read(ctx context.Context) (<-chan *models.Quote, <-chan error) {
	quotes := make(chan *models.Quote, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(quotes)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("stream conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("stream read: %w", err)
					return
				}
				var m wsMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-quote frames
					continue
				}
				if m.Type != "quote" {
					continue
				}
				for _, d := range m.Data {
					q := &models.Quote{
						Exchange:  d.E,
						Symbol:    d.S,
						Bid:       d.B,
						Ask:       d.A,
						Last:      d.L,
						Timestamp: d.T / 1000,
					}
					select {
					case quotes <- q:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return quotes, errs
}

// Reconnect closes and reconnects after the configured delay.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
