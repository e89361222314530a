package usecase

import (
	"context"
	"testing"
	"time"

	"AlphaPulse/internal/domain/models"
	"AlphaPulse/pkg/cache"
	"AlphaPulse/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

type nopMetrics struct{}

func (nopMetrics) RecordEventPublished(string)     {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)   {}

type stubPortfolio struct {
	holdings []models.Holding
	err      error
}

func (s *stubPortfolio) Holdings(context.Context, string) ([]models.Holding, error) {
	return s.holdings, s.err
}

type stubSettings struct {
	settings models.RiskSettings
	err      error
}

func (s *stubSettings) RiskSettings(context.Context, string) (models.RiskSettings, error) {
	return s.settings, s.err
}

type stubQuotes struct {
	quotes map[string]models.Quote
	errs   map[string]error
}

func (s *stubQuotes) Quote(_ context.Context, symbol string) (models.Quote, error) {
	if err := s.errs[symbol]; err != nil {
		return models.Quote{}, err
	}
	return s.quotes[symbol], nil
}

type stubBiasStore struct {
	recent   []models.BiasAnalysis
	err      error
	inserted [][]models.BiasAnalysis
}

func (s *stubBiasStore) InsertBiases(_ context.Context, biases []models.BiasAnalysis) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, biases)
	return nil
}

func (s *stubBiasStore) RecentBiases(context.Context, string, int) ([]models.BiasAnalysis, error) {
	return s.recent, s.err
}

type stubSignalStore struct {
	recent   []models.AlphaSignal
	err      error
	inserted [][]models.AlphaSignal
}

func (s *stubSignalStore) InsertSignals(_ context.Context, signals []models.AlphaSignal) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, signals)
	return nil
}

func (s *stubSignalStore) RecentSignals(context.Context, string, int) ([]models.AlphaSignal, error) {
	return s.recent, s.err
}

type stubEvents struct {
	biasBatches   int
	signalBatches int
	err           error
}

func (s *stubEvents) PublishBiases(context.Context, string, []models.BiasAnalysis) error {
	if s.err != nil {
		return s.err
	}
	s.biasBatches++
	return nil
}

func (s *stubEvents) PublishSignals(context.Context, string, []models.AlphaSignal) error {
	if s.err != nil {
		return s.err
	}
	s.signalBatches++
	return nil
}

func (s *stubEvents) Close() error { return nil }

// memScoreCache is an in-memory ScoreCache with miss semantics matching
// the Redis-backed one.
type memScoreCache struct {
	scores      map[string]models.AlphaScore
	invalidated int
	putErr      error
}

func newMemScoreCache() *memScoreCache {
	return &memScoreCache{scores: make(map[string]models.AlphaScore)}
}

func (c *memScoreCache) Get(_ context.Context, userID string) (models.AlphaScore, error) {
	score, ok := c.scores[userID]
	if !ok {
		return models.AlphaScore{}, cache.ErrCacheMiss
	}
	return score, nil
}

func (c *memScoreCache) Put(_ context.Context, userID string, score models.AlphaScore, _ time.Duration) error {
	if c.putErr != nil {
		return c.putErr
	}
	c.scores[userID] = score
	return nil
}

func (c *memScoreCache) Invalidate(_ context.Context, userID string) error {
	c.invalidated++
	delete(c.scores, userID)
	return nil
}
