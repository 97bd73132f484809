package tickers

import (
	"sync"

	"TaPulse/internal/domain/models"
)

// Store keeps the freshest quote per (exchange, symbol) pair. Writers come
// from the quote stream; readers are snapshot merges.
type Store struct {
	mu sync.RWMutex
	m  map[string]models.TickerSnapshot
}

func NewStore() *Store {
	return &Store{m: make(map[string]models.TickerSnapshot)}
}

// Put stores q as the latest quote for its pair.
func (s *Store) Put(q *models.Quote) {
	if q == nil {
		return
	}
	snap := models.TickerSnapshot{
		Exchange: q.Exchange,
		Symbol:   q.Symbol,
		Bid:      q.Bid,
		Ask:      q.Ask,
		Last:     q.Last,
		Time:     q.Timestamp,
	}
	s.mu.Lock()
	s.m[key(q.Exchange, q.Symbol)] = snap
	s.mu.Unlock()
}

// Get returns the freshest quote for the pair, if any.
func (s *Store) Get(exchange, symbol string) (models.TickerSnapshot, bool) {
	s.mu.RLock()
	snap, ok := s.m[key(exchange, symbol)]
	s.mu.RUnlock()
	return snap, ok
}

func key(exchange, symbol string) string {
	return exchange + ":" + symbol
}
