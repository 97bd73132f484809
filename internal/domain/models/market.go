package models

// SymbolRef identifies a tradable pair on a venue.
type SymbolRef struct {
	Symbol   string `json:"symbol" yaml:"symbol"`
	Exchange string `json:"exchange" yaml:"exchange"`
}

// Candle represents an OHLCV record. Time is unix seconds.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// TickerSnapshot is the freshest known quote for a pair. When no live quote
// exists the aggregator synthesizes one from the latest candle close
// (bid = ask = last = close).
type TickerSnapshot struct {
	Exchange string  `json:"exchange"`
	Symbol   string  `json:"symbol"`
	Bid      float64 `json:"bid"`
	Ask      float64 `json:"ask"`
	Last     float64 `json:"last"`
	Time     int64   `json:"time,omitempty"`
}

// Mid returns the bid/ask midpoint.
func (t TickerSnapshot) Mid() float64 {
	return (t.Ask + t.Bid) / 2
}

// Quote is a live bid/ask update from a market stream.
type Quote struct {
	Exchange  string
	Symbol    string
	Bid       float64
	Ask       float64
	Last      float64
	Timestamp int64
}
