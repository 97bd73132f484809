package repository

import (
	"context"

	"TaPulse/internal/domain/models"
	pkgkafka "TaPulse/pkg/kafka"
)

// KafkaSnapshotPublisher implements SnapshotPublisher over the Kafka producer.
type KafkaSnapshotPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaSnapshotPublisher(producer *pkgkafka.Producer, topic string) *KafkaSnapshotPublisher {
	return &KafkaSnapshotPublisher{producer: producer, topic: topic}
}

// PublishRow publishes one snapshot row keyed by symbol so all updates for a
// pair land on the same partition.
func (p *KafkaSnapshotPublisher) PublishRow(ctx context.Context, row *models.SymbolRow) error {
	return p.producer.Publish(ctx, p.topic, []byte(row.Symbol), row)
}

func (p *KafkaSnapshotPublisher) Close() error {
	return p.producer.Close()
}
