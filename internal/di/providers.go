package di

import (
	"context"
	"fmt"
	"time"

	"TaPulse/internal/domain/models"
	"TaPulse/internal/domain/repository"
	domsvc "TaPulse/internal/domain/service"
	internalrepo "TaPulse/internal/repository"
	"TaPulse/internal/service/backfill"
	"TaPulse/internal/service/registry"
	"TaPulse/internal/service/stream"
	"TaPulse/internal/service/tickers"
	"TaPulse/internal/services/indicators"
	"TaPulse/internal/usecase"
	pkgch "TaPulse/pkg/clickhouse"
	"TaPulse/pkg/config"
	xhttp "TaPulse/pkg/http"
	pkgkafka "TaPulse/pkg/kafka"
	applogger "TaPulse/pkg/logger"
	"TaPulse/pkg/metrics"
	"TaPulse/pkg/queue"
	"TaPulse/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := []string{"CREATE DATABASE IF NOT EXISTS tapulse"}
	for _, tbl := range []string{"candles_15m", "candles_1h", "candles_4h", "candles_1d"} {
		stmts = append(stmts, fmt.Sprintf(
			"CREATE TABLE IF NOT EXISTS tapulse.%s (exchange String, symbol String, time Int64, open Float64, high Float64, low Float64, close Float64, volume Float64) ENGINE=ReplacingMergeTree ORDER BY (exchange, symbol, time)",
			tbl))
	}
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideRedisClient creates a shared Redis client.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCandleRepository creates the ClickHouse candle store.
func ProvideCandleRepository(chClient *pkgch.Client, l *applogger.Logger) repository.CandleRepository {
	store := internalrepo.NewCHCandleStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideTickerStore creates the in-memory live ticker store.
func ProvideTickerStore() *tickers.Store {
	return tickers.NewStore()
}

// ProvideSymbolRegistry creates the watchlist registry from config.
func ProvideSymbolRegistry(cfg *config.Config) repository.SymbolRegistry {
	refs := make([]models.SymbolRef, 0, len(cfg.Watchlist))
	for _, w := range cfg.Watchlist {
		refs = append(refs, models.SymbolRef{Exchange: w.Exchange, Symbol: w.Symbol})
	}
	return registry.New(refs)
}

// ProvideQuoteStream creates the WebSocket quote stream.
func ProvideQuoteStream(cfg *config.Config, l *applogger.Logger) repository.QuoteStream {
	refs := make([]models.SymbolRef, 0, len(cfg.Watchlist))
	for _, w := range cfg.Watchlist {
		refs = append(refs, models.SymbolRef{Exchange: w.Exchange, Symbol: w.Symbol})
	}
	s := stream.New(cfg.Stream.WebSocketURL, refs, cfg.Stream.ReconnectDelay, cfg.Stream.PingInterval)
	if sl, ok := s.(interface{ SetLogger(*applogger.Logger) }); ok {
		sl.SetLogger(l)
	}
	return s
}

// ProvideIndicatorEngine creates the TA-Lib backed indicator engine.
func ProvideIndicatorEngine() domsvc.IndicatorEngine {
	return indicators.NewEngine(indicators.DefaultConfig())
}

// ProvideSnapshotUseCase creates the snapshot aggregation use case.
func ProvideSnapshotUseCase(
	candles repository.CandleRepository,
	reg repository.SymbolRegistry,
	store *tickers.Store,
	engine domsvc.IndicatorEngine,
) *usecase.SnapshotUseCase {
	return usecase.NewSnapshotUseCase(candles, reg, store, engine)
}

// ProvideSnapshotPublisher creates the Kafka snapshot publisher.
func ProvideSnapshotPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.SnapshotPublisher {
	return internalrepo.NewKafkaSnapshotPublisher(producer, cfg.Kafka.Topic)
}

// ProvideSnapshotBroadcaster creates the periodic snapshot broadcaster.
func ProvideSnapshotBroadcaster(
	snap *usecase.SnapshotUseCase,
	pub repository.SnapshotPublisher,
	m repository.Metrics,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.SnapshotBroadcaster {
	periods := make([]repository.Period, 0, len(cfg.Snapshot.Periods))
	for _, p := range cfg.Snapshot.Periods {
		periods = append(periods, repository.Period(p))
	}
	b := usecase.NewSnapshotBroadcaster(snap, pub, m, cfg.Snapshot.BroadcastInterval, periods)
	b.SetLogger(l)
	return b
}

// ProvideQuoteCollector creates the quote collector use case.
func ProvideQuoteCollector(
	s repository.QuoteStream,
	store *tickers.Store,
	m repository.Metrics,
) *usecase.QuoteCollector {
	return usecase.NewQuoteCollector(s, store, m)
}

// ProvideBackfillJob creates the backfill queue job.
func ProvideBackfillJob(cfg *config.Config, l *applogger.Logger) *backfill.Job {
	client := backfill.NewClient(
		cfg.Backfill.ServiceURL,
		xhttp.NewClient(xhttp.WithTimeout(cfg.Backfill.Timeout)),
	)
	client.SetLogger(l)
	return backfill.NewJob(client)
}

// ProvideQueue creates the Redis-backed backfill queue.
func ProvideQueue(l *applogger.Logger, cfg *config.Config, cli *redis.Client, job *backfill.Job) *queue.RedisQueue {
	q := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    cfg.Backfill.Workers,
		RetryLimit: cfg.Backfill.RetryLimit,
		RetryDelay: cfg.Backfill.RetryDelay,
	}, cli, queue.ModeProducerConsumer)
	q.RegisterJob(job)
	return q
}

// ProvideBackfillUseCase creates the backfill trigger use case.
func ProvideBackfillUseCase(q *queue.RedisQueue) *usecase.BackfillUseCase {
	return usecase.NewBackfillUseCase(q)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.QuoteCollector,
	broadcaster *usecase.SnapshotBroadcaster,
	q *queue.RedisQueue,
	snap *usecase.SnapshotUseCase,
	backfillUC *usecase.BackfillUseCase,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	redisClient *redis.Client,
) *server.App {
	return server.New(cfg, l, collector, broadcaster, q, snap, backfillUC, chClient, producer, redisClient)
}
