package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"AlphaPulse/internal/domain/models"
	drepo "AlphaPulse/internal/domain/repository"
	domsvc "AlphaPulse/internal/domain/service"
	"AlphaPulse/pkg/logger"
)

// SignalGenerator produces one signal per held symbol from live quotes.
type SignalGenerator struct {
	portfolio drepo.PortfolioStore
	settings  drepo.SettingsStore
	quotes    domsvc.QuoteProvider
	model     domsvc.SignalModel
	store     drepo.SignalStore
	events    drepo.EventPublisher
	cache     domsvc.ScoreCache
	metrics   drepo.Metrics
	log       *logger.Logger
	now       func() time.Time
}

// NewSignalGenerator creates a new SignalGenerator instance.
func NewSignalGenerator(
	portfolio drepo.PortfolioStore,
	settings drepo.SettingsStore,
	quotes domsvc.QuoteProvider,
	model domsvc.SignalModel,
	store drepo.SignalStore,
	events drepo.EventPublisher,
	cache domsvc.ScoreCache,
	metrics drepo.Metrics,
	log *logger.Logger,
) *SignalGenerator {
	return &SignalGenerator{
		portfolio: portfolio,
		settings:  settings,
		quotes:    quotes,
		model:     model,
		store:     store,
		events:    events,
		cache:     cache,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// Generate runs the model over every held symbol. One symbol's quote or
// model failure is logged and skipped; the batch still returns the rest.
func (g *SignalGenerator) Generate(ctx context.Context, userID string) ([]models.AlphaSignal, error) {
	holdings, err := g.portfolio.Holdings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read portfolio: %w", err)
	}
	settings, err := g.settings.RiskSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	now := g.now()
	type candidate struct {
		sig models.AlphaSignal
		ok  bool
	}
	candidates := make([]candidate, len(holdings))
	var wg sync.WaitGroup
	for i, h := range holdings {
		wg.Add(1)
		go func(i int, h models.Holding) {
			defer wg.Done()
			q, err := g.quotes.Quote(ctx, h.Symbol)
			if err != nil {
				g.log.Warn("signal skipped, quote unavailable",
					logger.String("symbol", h.Symbol), logger.Error(err))
				g.metrics.RecordError("signal_quote")
				return
			}
			sig, ok := g.model.Generate(q, settings)
			if !ok {
				return
			}
			sig.ID = "signal_" + uuid.NewString()
			sig.UserID = userID
			sig.Timestamp = now
			candidates[i] = candidate{sig: sig, ok: true}
		}(i, h)
	}
	wg.Wait()

	// Collect in holding order so batches are stable across runs.
	signals := make([]models.AlphaSignal, 0, len(holdings))
	for _, c := range candidates {
		if c.ok {
			signals = append(signals, c.sig)
		}
	}

	if len(signals) == 0 {
		return signals, nil
	}

	if err := g.store.InsertSignals(ctx, signals); err != nil {
		g.metrics.RecordError("signal_persist")
		return nil, fmt.Errorf("persist signals: %w", err)
	}
	if err := g.events.PublishSignals(ctx, userID, signals); err != nil {
		g.log.Warn("signal event publish failed", logger.String("user", userID), logger.Error(err))
		g.metrics.RecordError("signal_publish")
	} else {
		g.metrics.RecordEventPublished("signals")
	}
	if err := g.cache.Invalidate(ctx, userID); err != nil {
		g.log.Warn("score cache invalidate failed", logger.String("user", userID), logger.Error(err))
	}
	return signals, nil
}
