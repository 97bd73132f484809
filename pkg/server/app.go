package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TaPulse/internal/handler/api"
	icache "TaPulse/internal/service/cache"
	"TaPulse/internal/usecase"
	pkgch "TaPulse/pkg/clickhouse"
	"TaPulse/pkg/config"
	xhttp "TaPulse/pkg/http"
	pkgkafka "TaPulse/pkg/kafka"
	applogger "TaPulse/pkg/logger"
	"TaPulse/pkg/queue"

	"github.com/redis/go-redis/v9"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	l           *applogger.Logger
	collector   *usecase.QuoteCollector
	broadcaster *usecase.SnapshotBroadcaster
	queue       *queue.RedisQueue
	snap        *usecase.SnapshotUseCase
	backfill    *usecase.BackfillUseCase
	chClient    *pkgch.Client
	producer    *pkgkafka.Producer
	redisClient *redis.Client
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.QuoteCollector,
	broadcaster *usecase.SnapshotBroadcaster,
	q *queue.RedisQueue,
	snap *usecase.SnapshotUseCase,
	backfill *usecase.BackfillUseCase,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	redisClient *redis.Client,
) *App {
	return &App{
		cfg:         cfg,
		l:           l,
		collector:   collector,
		broadcaster: broadcaster,
		queue:       q,
		snap:        snap,
		backfill:    backfill,
		chClient:    chClient,
		producer:    producer,
		redisClient: redisClient,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// kafkaLogPublisher adapts the Kafka producer to the log collector sink.
type kafkaLogPublisher struct {
	producer *pkgkafka.Producer
}

func (p *kafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.l

	// Aggregate error logs and ship them to Kafka alongside snapshots.
	if a.producer != nil && len(a.cfg.Kafka.Brokers) > 0 {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          "tapulse.logs",
			Publisher:      &kafkaLogPublisher{producer: a.producer},
		})
	}

	httpHandler := a.httpHandler
	if httpHandler == nil {
		h := api.NewTAEchoHandler(l, a.snap, a.backfill)
		if a.redisClient != nil && a.cfg.Redis.Addr != "" {
			h.SetCache(icache.NewRedisCache(a.redisClient))
		} else {
			h.SetCache(icache.NewTTLCache())
		}
		httpHandler = h
	}

	a.httpServer = xhttp.NewServer(httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Backfill queue workers
	if err := a.queue.Start(); err != nil {
		l.Error("queue start error", applogger.Error(err))
		return err
	}

	// Live quote collector
	if a.cfg.Stream.WebSocketURL != "" {
		if err := a.collector.Start(ctx); err != nil {
			l.Error("collector start error", applogger.Error(err))
		} else {
			l.Info("quote collector started", applogger.String("url", a.cfg.Stream.WebSocketURL))
		}
	}

	// Periodic snapshot broadcaster
	if a.cfg.Snapshot.BroadcastInterval > 0 {
		go func() {
			if err := a.broadcaster.Start(ctx); err != nil && ctx.Err() == nil {
				l.Error("broadcaster error", applogger.Error(err))
			}
		}()
		l.Info("snapshot broadcaster started",
			applogger.Duration("interval_ms", a.cfg.Snapshot.BroadcastInterval))
	}

	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	l := a.l
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.collector.Stop(); err != nil {
		l.Warn("collector stop error", applogger.Error(err))
	}

	if err := a.queue.Stop(shutdownCtx); err != nil {
		l.Warn("queue stop error", applogger.Error(err))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			l.Warn("redis close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
