package usecase

import (
	"context"
	"time"

	domrepo "TaPulse/internal/domain/repository"
	applogger "TaPulse/pkg/logger"
)

// SnapshotBroadcaster periodically recomputes the full snapshot and publishes
// each row for downstream alerting.
type SnapshotBroadcaster struct {
	snap     *SnapshotUseCase
	pub      domrepo.SnapshotPublisher
	metrics  domrepo.Metrics
	interval time.Duration
	periods  []domrepo.Period
	l        *applogger.Logger
}

func NewSnapshotBroadcaster(
	snap *SnapshotUseCase,
	pub domrepo.SnapshotPublisher,
	metrics domrepo.Metrics,
	interval time.Duration,
	periods []domrepo.Period,
) *SnapshotBroadcaster {
	if interval <= 0 {
		interval = time.Minute
	}
	if len(periods) == 0 {
		periods = domrepo.DefaultPeriods()
	}
	return &SnapshotBroadcaster{snap: snap, pub: pub, metrics: metrics, interval: interval, periods: periods}
}

// SetLogger injects a structured logger.
func (b *SnapshotBroadcaster) SetLogger(l *applogger.Logger) { b.l = l }

// Start blocks until ctx is done, broadcasting one snapshot per interval.
func (b *SnapshotBroadcaster) Start(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			b.broadcast(ctx)
		}
	}
}

func (b *SnapshotBroadcaster) broadcast(ctx context.Context) {
	start := time.Now()
	res, err := b.snap.ComputeSnapshot(ctx, b.periods)
	if err != nil {
		b.metrics.RecordError("broadcast_compute")
		if b.l != nil {
			b.l.Error("broadcast compute error", applogger.Error(err))
		}
		return
	}
	b.metrics.RecordLatency("broadcast_compute", time.Since(start).Seconds())

	for _, row := range res.Rows {
		if err := b.pub.PublishRow(ctx, row); err != nil {
			b.metrics.RecordError("broadcast_publish")
			if b.l != nil {
				b.l.Error("broadcast publish error",
					applogger.String("symbol", row.Symbol),
					applogger.Error(err))
			}
			continue
		}
		b.metrics.RecordMessageSent("kafka", row.Symbol)
	}
	if b.l != nil {
		b.l.Debug("snapshot broadcast",
			applogger.Int("rows", len(res.Rows)),
			applogger.Duration("duration_ms", time.Since(start)))
	}
}
