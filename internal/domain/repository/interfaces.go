package repository

import (
	"context"

	"AlphaPulse/internal/domain/models"
)

// PortfolioStore reads positions owned by a user. The portfolio CRUD service
// writes them; this service only reads.
type PortfolioStore interface {
	Holdings(ctx context.Context, userID string) ([]models.Holding, error)
}

// SettingsStore reads user preferences.
type SettingsStore interface {
	RiskSettings(ctx context.Context, userID string) (models.RiskSettings, error)
}

// BiasStore persists and reads detected biases.
type BiasStore interface {
	InsertBiases(ctx context.Context, biases []models.BiasAnalysis) error
	RecentBiases(ctx context.Context, userID string, limit int) ([]models.BiasAnalysis, error)
}

// SignalStore persists and reads generated signals.
type SignalStore interface {
	InsertSignals(ctx context.Context, signals []models.AlphaSignal) error
	RecentSignals(ctx context.Context, userID string, limit int) ([]models.AlphaSignal, error)
}

// EventPublisher emits detection results for downstream consumers.
type EventPublisher interface {
	PublishBiases(ctx context.Context, userID string, biases []models.BiasAnalysis) error
	PublishSignals(ctx context.Context, userID string, signals []models.AlphaSignal) error
	Close() error
}

// MarketStream is a live feed of trade prints for the configured hot symbols.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

type Metrics interface {
	RecordEventPublished(topic string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
