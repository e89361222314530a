package service

import (
	"context"
	"time"

	"AlphaPulse/internal/domain/models"
)

// QuoteProvider resolves the latest quote for a symbol.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (models.Quote, error)
}

// ScoreCache stores composed alpha scores keyed by user.
type ScoreCache interface {
	Get(ctx context.Context, userID string) (models.AlphaScore, error)
	Put(ctx context.Context, userID string, score models.AlphaScore, ttl time.Duration) error
	Invalidate(ctx context.Context, userID string) error
}

// BiasDetector inspects a valuation snapshot for one behavioral pattern.
// A false second return means the pattern was not present.
type BiasDetector interface {
	Name() string
	Detect(snapshot models.PortfolioSnapshot) (models.BiasAnalysis, bool)
}

// SignalModel derives a trading signal for one symbol from its live quote.
// A false second return means no actionable signal.
type SignalModel interface {
	Generate(quote models.Quote, settings models.RiskSettings) (models.AlphaSignal, bool)
}
