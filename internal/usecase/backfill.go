package usecase

import (
	"context"
	"fmt"

	domrepo "TaPulse/internal/domain/repository"
	"TaPulse/internal/service/backfill"
	"TaPulse/pkg/queue"
	xutil "TaPulse/pkg/util"
)

// BackfillUseCase accepts historical backfill triggers and hands them to the
// queue; the backfill computation itself runs in an external service.
type BackfillUseCase struct {
	queue queue.QueueService
}

func NewBackfillUseCase(q queue.QueueService) *BackfillUseCase {
	return &BackfillUseCase{queue: q}
}

type TriggerBackfillParams struct {
	Exchange string
	Symbol   string
	Period   domrepo.Period
	Date     string
}

// TriggerBackfill validates the request and enqueues one backfill job.
func (uc *BackfillUseCase) TriggerBackfill(ctx context.Context, p TriggerBackfillParams) error {
	if p.Exchange == "" || p.Symbol == "" {
		return fmt.Errorf("exchange and symbol required")
	}
	start, ok := xutil.ParseTime(p.Date)
	if !ok {
		return fmt.Errorf("invalid date: %q", p.Date)
	}
	if p.Period == "" {
		p.Period = domrepo.Period1h
	}
	start = xutil.AlignToPeriod(start, p.Period.Minutes())

	payload := backfill.JobPayload{
		Exchange: p.Exchange,
		Symbol:   p.Symbol,
		Period:   string(p.Period),
		Start:    start.Unix(),
	}
	if err := uc.queue.PublishMessage(ctx, backfill.MessageType, payload); err != nil {
		return fmt.Errorf("enqueue backfill: %w", err)
	}
	return nil
}
