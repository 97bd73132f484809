package indicators

import (
	"math"
	"testing"

	"TaPulse/internal/domain/models"
)

func TestTrendDirection(t *testing.T) {
	e := NewEngine(DefaultConfig())

	if got := e.TrendDirection([]float64{1, 2, 3}); got != models.TrendUp {
		t.Fatalf("expected up, got %q", got)
	}
	if got := e.TrendDirection([]float64{3, 5, 1}); got != models.TrendDown {
		t.Fatalf("expected down, got %q", got)
	}
	if got := e.TrendDirection([]float64{2, 9, 2}); got != models.TrendFlat {
		t.Fatalf("expected flat, got %q", got)
	}
	if got := e.TrendDirection(nil); got != models.TrendFlat {
		t.Fatalf("expected flat for empty window, got %q", got)
	}
}

func TestCrossingDistance(t *testing.T) {
	e := NewEngine(DefaultConfig())

	if n, ok := e.CrossingDistance([]float64{1, -2, 3}); !ok || n != 1 {
		t.Fatalf("expected distance 1, got %d ok=%v", n, ok)
	}
	if n, ok := e.CrossingDistance([]float64{-1, -2, 3}); !ok || n != 1 {
		t.Fatalf("expected distance 1, got %d ok=%v", n, ok)
	}
	if n, ok := e.CrossingDistance([]float64{-5, 1, 2, 3}); !ok || n != 3 {
		t.Fatalf("expected distance 3, got %d ok=%v", n, ok)
	}
	if _, ok := e.CrossingDistance([]float64{1, 2, 3}); ok {
		t.Fatalf("expected no crossing for same-sign series")
	}
	if _, ok := e.CrossingDistance([]float64{5}); ok {
		t.Fatalf("expected no crossing for single element")
	}
}

func TestCrossingDistanceZeroIsPositive(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// zero counts as non-negative, so 0 -> 3 is not a flip
	if _, ok := e.CrossingDistance([]float64{0, 3}); ok {
		t.Fatalf("expected no crossing from zero to positive")
	}
	if n, ok := e.CrossingDistance([]float64{0, -3}); !ok || n != 1 {
		t.Fatalf("expected crossing from zero to negative, got %d ok=%v", n, ok)
	}
}

func TestBollingerPercent(t *testing.T) {
	e := NewEngine(DefaultConfig())

	if got := e.BollingerPercent(100, 110, 90); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got := e.BollingerPercent(90, 110, 90); got != 0 {
		t.Fatalf("expected 0 at lower band, got %v", got)
	}
	if got := e.BollingerPercent(110, 110, 90); got != 1 {
		t.Fatalf("expected 1 at upper band, got %v", got)
	}
	if got := e.BollingerPercent(120, 110, 90); math.Abs(got-1.5) > 1e-9 {
		t.Fatalf("expected 1.5 above band, got %v", got)
	}
	if got := e.BollingerPercent(100, 50, 50); got != 0 {
		t.Fatalf("expected 0 for zero width, got %v", got)
	}
}
