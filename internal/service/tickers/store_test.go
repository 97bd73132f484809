package tickers

import (
	"testing"

	"TaPulse/internal/domain/models"
)

func TestStorePutGet(t *testing.T) {
	s := NewStore()

	if _, ok := s.Get("binance", "BTCUSDT"); ok {
		t.Fatalf("expected miss on empty store")
	}

	s.Put(&models.Quote{Exchange: "binance", Symbol: "BTCUSDT", Bid: 100, Ask: 102, Last: 101, Timestamp: 1700000000})
	snap, ok := s.Get("binance", "BTCUSDT")
	if !ok {
		t.Fatalf("expected hit")
	}
	if snap.Bid != 100 || snap.Ask != 102 || snap.Last != 101 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if got := snap.Mid(); got != 101 {
		t.Fatalf("unexpected mid %v", got)
	}
}

func TestStoreLatestWins(t *testing.T) {
	s := NewStore()
	s.Put(&models.Quote{Exchange: "binance", Symbol: "BTCUSDT", Bid: 100, Ask: 102})
	s.Put(&models.Quote{Exchange: "binance", Symbol: "BTCUSDT", Bid: 110, Ask: 112})

	snap, ok := s.Get("binance", "BTCUSDT")
	if !ok || snap.Bid != 110 {
		t.Fatalf("expected latest quote, got %+v ok=%v", snap, ok)
	}
}

func TestStorePairsAreIndependent(t *testing.T) {
	s := NewStore()
	s.Put(&models.Quote{Exchange: "binance", Symbol: "BTCUSDT", Bid: 1})
	s.Put(&models.Quote{Exchange: "coinbase", Symbol: "BTCUSDT", Bid: 2})

	a, _ := s.Get("binance", "BTCUSDT")
	b, _ := s.Get("coinbase", "BTCUSDT")
	if a.Bid != 1 || b.Bid != 2 {
		t.Fatalf("pairs collided: %v %v", a.Bid, b.Bid)
	}
}
