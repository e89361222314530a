package repository

import (
	"context"

	"AlphaPulse/internal/domain/models"
	"AlphaPulse/internal/domain/repository"
	pkgkafka "AlphaPulse/pkg/kafka"
)

// KafkaEventPublisher emits bias and signal events for downstream
// analytics consumers.
type KafkaEventPublisher struct {
	producer    *pkgkafka.Producer
	biasTopic   string
	signalTopic string
}

// NewKafkaEventPublisher creates the Kafka publisher.
func NewKafkaEventPublisher(producer *pkgkafka.Producer, biasTopic, signalTopic string) repository.EventPublisher {
	return &KafkaEventPublisher{producer: producer, biasTopic: biasTopic, signalTopic: signalTopic}
}

func (p *KafkaEventPublisher) PublishBiases(ctx context.Context, userID string, biases []models.BiasAnalysis) error {
	if len(biases) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(biases))
	for i, b := range biases {
		msgs[i] = pkgkafka.Message{
			Key: []byte(userID),
			Value: map[string]interface{}{
				"id":       b.ID,
				"userId":   b.UserID,
				"biasType": b.BiasType,
				"severity": b.Severity,
				"ts":       b.DetectedAt.UnixMilli(),
			},
		}
	}
	return p.producer.PublishBatch(ctx, p.biasTopic, msgs)
}

func (p *KafkaEventPublisher) PublishSignals(ctx context.Context, userID string, signals []models.AlphaSignal) error {
	if len(signals) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(signals))
	for i, s := range signals {
		msgs[i] = pkgkafka.Message{
			Key: []byte(userID),
			Value: map[string]interface{}{
				"id":         s.ID,
				"userId":     s.UserID,
				"asset":      s.Asset,
				"direction":  s.Direction,
				"confidence": s.Confidence,
				"ts":         s.Timestamp.UnixMilli(),
			},
		}
	}
	return p.producer.PublishBatch(ctx, p.signalTopic, msgs)
}

func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
