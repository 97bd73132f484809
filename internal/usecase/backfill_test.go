package usecase

import (
	"context"
	"testing"
	"time"

	domrepo "TaPulse/internal/domain/repository"
	"TaPulse/internal/service/backfill"
)

type fakeQueue struct {
	msgType string
	payload interface{}
}

func (f *fakeQueue) PublishMessage(_ context.Context, msgType string, payload interface{}) error {
	f.msgType = msgType
	f.payload = payload
	return nil
}

func TestTriggerBackfillEnqueues(t *testing.T) {
	q := &fakeQueue{}
	uc := NewBackfillUseCase(q)

	err := uc.TriggerBackfill(context.Background(), TriggerBackfillParams{
		Exchange: "binance",
		Symbol:   "BTCUSDT",
		Period:   domrepo.Period4h,
		Date:     "2024-10-10T10:37:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.msgType != backfill.MessageType {
		t.Fatalf("unexpected message type %q", q.msgType)
	}
	p, ok := q.payload.(backfill.JobPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", q.payload)
	}
	if p.Period != "4h" {
		t.Fatalf("unexpected period %q", p.Period)
	}
	want := time.Date(2024, 10, 10, 8, 0, 0, 0, time.UTC).Unix()
	if p.Start != want {
		t.Fatalf("expected start aligned to 4h boundary %d, got %d", want, p.Start)
	}
}

func TestTriggerBackfillDefaultsPeriod(t *testing.T) {
	q := &fakeQueue{}
	uc := NewBackfillUseCase(q)

	err := uc.TriggerBackfill(context.Background(), TriggerBackfillParams{
		Exchange: "binance",
		Symbol:   "BTCUSDT",
		Date:     "2024-10-10T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p := q.payload.(backfill.JobPayload); p.Period != "1h" {
		t.Fatalf("expected default period 1h, got %q", p.Period)
	}
}

func TestTriggerBackfillRejectsBadInput(t *testing.T) {
	uc := NewBackfillUseCase(&fakeQueue{})

	if err := uc.TriggerBackfill(context.Background(), TriggerBackfillParams{Symbol: "BTCUSDT", Date: "2024-10-10T10:00:00Z"}); err == nil {
		t.Fatalf("expected error for missing exchange")
	}
	if err := uc.TriggerBackfill(context.Background(), TriggerBackfillParams{Exchange: "binance", Symbol: "BTCUSDT", Date: "not-a-date"}); err == nil {
		t.Fatalf("expected error for bad date")
	}
}
