package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"AlphaPulse/internal/domain/models"
	drepo "AlphaPulse/internal/domain/repository"
	domsvc "AlphaPulse/internal/domain/service"
	"AlphaPulse/pkg/logger"
)

// ValuationAggregator prices every holding of a user with live quotes.
type ValuationAggregator struct {
	portfolio drepo.PortfolioStore
	quotes    domsvc.QuoteProvider
	metrics   drepo.Metrics
	log       *logger.Logger
}

// NewValuationAggregator creates a new ValuationAggregator instance.
func NewValuationAggregator(
	portfolio drepo.PortfolioStore,
	quotes domsvc.QuoteProvider,
	metrics drepo.Metrics,
	log *logger.Logger,
) *ValuationAggregator {
	return &ValuationAggregator{
		portfolio: portfolio,
		quotes:    quotes,
		metrics:   metrics,
		log:       log,
	}
}

// Snapshot values the user's current holdings. A failed portfolio read fails
// the whole call; a failed quote degrades only its own holding, priced at
// cost with zero gain/loss.
func (v *ValuationAggregator) Snapshot(ctx context.Context, userID string) (models.PortfolioSnapshot, error) {
	start := time.Now()
	holdings, err := v.portfolio.Holdings(ctx, userID)
	if err != nil {
		v.metrics.RecordError("portfolio_read")
		return models.PortfolioSnapshot{}, fmt.Errorf("read portfolio: %w", err)
	}

	valued := make([]models.Holding, len(holdings))
	var wg sync.WaitGroup
	for i, h := range holdings {
		wg.Add(1)
		go func(i int, h models.Holding) {
			defer wg.Done()
			valued[i] = v.value(ctx, h)
		}(i, h)
	}
	wg.Wait()

	snap := models.PortfolioSnapshot{UserID: userID, Holdings: valued}
	for _, h := range valued {
		snap.TotalValue += h.Value
		snap.TotalGainLoss += h.GainLoss
	}
	v.metrics.RecordLatency("valuation", time.Since(start).Seconds())
	return snap, nil
}

func (v *ValuationAggregator) value(ctx context.Context, h models.Holding) models.Holding {
	q, err := v.quotes.Quote(ctx, h.Symbol)
	if err != nil {
		// Degrade to cost basis, never fail the aggregation for one symbol.
		v.log.Warn("quote lookup failed, pricing at cost",
			logger.String("symbol", h.Symbol), logger.Error(err))
		v.metrics.RecordError("quote_degraded")
		h.CurrentPrice = h.AverageCost
		h.Value = h.Shares * h.AverageCost
		h.GainLoss = 0
		h.GainLossPercent = 0
		return h
	}
	h.CurrentPrice = q.Price
	h.Value = h.Shares * q.Price
	h.GainLoss = h.Value - h.Shares*h.AverageCost
	cost := h.Shares * h.AverageCost
	if cost > 0 {
		h.GainLossPercent = h.GainLoss / cost * 100
	}
	return h
}
