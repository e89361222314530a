package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/singleflight"

	"AlphaPulse/internal/domain/models"
	drepo "AlphaPulse/internal/domain/repository"
	domsvc "AlphaPulse/internal/domain/service"
	"AlphaPulse/pkg/cache"
	"AlphaPulse/pkg/logger"
)

// ScoreParams are the composition tunables.
type ScoreParams struct {
	MarketAveragePct float64
	RecencyWindow    time.Duration
	SignalWindow     time.Duration
	RecentBiases     int
	RecentSignals    int
	CacheTTL         time.Duration
	Period           string
}

// DefaultScoreParams returns the reference tunables.
func DefaultScoreParams() ScoreParams {
	return ScoreParams{
		MarketAveragePct: 8.0,
		RecencyWindow:    30 * 24 * time.Hour,
		SignalWindow:     7 * 24 * time.Hour,
		RecentBiases:     50,
		RecentSignals:    100,
		CacheTTL:         time.Hour,
		Period:           "30d",
	}
}

// ScoreComposer folds valuation, bias findings and signal quality into one
// cached composite score.
type ScoreComposer struct {
	valuation *ValuationAggregator
	biases    drepo.BiasStore
	signals   drepo.SignalStore
	cache     domsvc.ScoreCache
	metrics   drepo.Metrics
	log       *logger.Logger
	params    ScoreParams
	group     singleflight.Group
	now       func() time.Time
}

// NewScoreComposer creates a new ScoreComposer instance.
func NewScoreComposer(
	valuation *ValuationAggregator,
	biases drepo.BiasStore,
	signals drepo.SignalStore,
	scoreCache domsvc.ScoreCache,
	metrics drepo.Metrics,
	log *logger.Logger,
	params ScoreParams,
) *ScoreComposer {
	if params.Period == "" {
		params = DefaultScoreParams()
	}
	return &ScoreComposer{
		valuation: valuation,
		biases:    biases,
		signals:   signals,
		cache:     scoreCache,
		metrics:   metrics,
		log:       log,
		params:    params,
		now:       time.Now,
	}
}

// Score returns the cached score or recomputes it. Concurrent misses for
// the same user collapse into a single computation. Cache failures degrade
// to recompute-only; store read failures fail the whole call.
func (c *ScoreComposer) Score(ctx context.Context, userID string) (models.AlphaScore, error) {
	score, err := c.cache.Get(ctx, userID)
	if err == nil {
		return score, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		c.log.Warn("score cache read failed", logger.String("user", userID), logger.Error(err))
		c.metrics.RecordError("score_cache_read")
	}

	v, err, _ := c.group.Do(userID, func() (interface{}, error) {
		return c.compute(ctx, userID)
	})
	if err != nil {
		return models.AlphaScore{}, err
	}
	return v.(models.AlphaScore), nil
}

func (c *ScoreComposer) compute(ctx context.Context, userID string) (models.AlphaScore, error) {
	start := c.now()

	snap, err := c.valuation.Snapshot(ctx, userID)
	if err != nil {
		return models.AlphaScore{}, fmt.Errorf("compute score: %w", err)
	}
	biases, err := c.biases.RecentBiases(ctx, userID, c.params.RecentBiases)
	if err != nil {
		return models.AlphaScore{}, fmt.Errorf("compute score: %w", err)
	}
	signals, err := c.signals.RecentSignals(ctx, userID, c.params.RecentSignals)
	if err != nil {
		return models.AlphaScore{}, fmt.Errorf("compute score: %w", err)
	}

	now := c.now()
	portfolioScore := c.portfolioScore(snap)
	biasScore := c.biasScore(biases, now)
	signalScore := c.signalScore(signals, now)

	missed := 0
	for _, s := range signals {
		if s.Confidence > 0.8 {
			missed++
		}
	}

	baseScore := (portfolioScore + biasScore + signalScore) / 3
	improvementFactor := 1 + 0.02*float64(len(biases))
	finalScore := math.Min(100, baseScore*improvementFactor)

	score := models.AlphaScore{
		UserID:              userID,
		Score:               round2(finalScore),
		Improvement:         round2(finalScore - baseScore),
		Period:              c.params.Period,
		BiasesCorrected:     len(biases),
		OpportunitiesMissed: missed,
		CalculatedAt:        now,
	}

	if err := c.cache.Put(ctx, userID, score, c.params.CacheTTL); err != nil {
		c.log.Warn("score cache write failed", logger.String("user", userID), logger.Error(err))
		c.metrics.RecordError("score_cache_write")
	}
	c.metrics.RecordLatency("score_compute", time.Since(start).Seconds())
	return score, nil
}

func (c *ScoreComposer) portfolioScore(snap models.PortfolioSnapshot) float64 {
	if len(snap.Holdings) == 0 {
		return 50
	}
	return clamp(0, 100, 50+(snap.ReturnPercent()-c.params.MarketAveragePct)*2)
}

func (c *ScoreComposer) biasScore(biases []models.BiasAnalysis, now time.Time) float64 {
	score := 100.0
	for _, b := range biases {
		days := now.Sub(b.DetectedAt).Hours() / 24
		weight := math.Max(0.1, 1-days/(c.params.RecencyWindow.Hours()/24))
		score -= models.SeverityPenalty(b.Severity) * weight
	}
	return clamp(0, 100, score)
}

func (c *ScoreComposer) signalScore(signals []models.AlphaSignal, now time.Time) float64 {
	cutoff := now.Add(-c.params.SignalWindow)
	var sum float64
	var n int
	for _, s := range signals {
		if s.Timestamp.Before(cutoff) {
			continue
		}
		sum += s.Confidence * 100
		n++
	}
	if n == 0 {
		return 50
	}
	return math.Min(100, sum/float64(n))
}

func clamp(lo, hi, v float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
