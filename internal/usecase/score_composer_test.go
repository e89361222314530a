package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"AlphaPulse/internal/domain/models"
)

func newTestComposer(t *testing.T, portfolio *stubPortfolio, quotes *stubQuotes,
	biases *stubBiasStore, signals *stubSignalStore, scores *memScoreCache) *ScoreComposer {
	t.Helper()
	log := testLogger(t)
	valuation := NewValuationAggregator(portfolio, quotes, nopMetrics{}, log)
	return NewScoreComposer(valuation, biases, signals, scores, nopMetrics{}, log, DefaultScoreParams())
}

func TestScoreEmptyUser(t *testing.T) {
	c := newTestComposer(t, &stubPortfolio{}, &stubQuotes{}, &stubBiasStore{}, &stubSignalStore{}, newMemScoreCache())

	score, err := c.Score(context.Background(), "u1")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	// portfolio 50, biases 100, signals 50, no improvement factor
	if score.Score != 66.67 {
		t.Fatalf("score = %v, want 66.67", score.Score)
	}
	if score.Improvement != 0 {
		t.Fatalf("improvement = %v, want 0", score.Improvement)
	}
	if score.BiasesCorrected != 0 || score.OpportunitiesMissed != 0 {
		t.Fatalf("unexpected counters: %+v", score)
	}
	if score.Period != "30d" {
		t.Fatalf("period = %q", score.Period)
	}
}

func TestScoreFreshHighSeverityBiases(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	biases := &stubBiasStore{recent: []models.BiasAnalysis{
		{BiasType: models.BiasConfirmation, Severity: models.SeverityHigh, DetectedAt: now},
		{BiasType: models.BiasConfirmation, Severity: models.SeverityHigh, DetectedAt: now},
		{BiasType: models.BiasConfirmation, Severity: models.SeverityHigh, DetectedAt: now},
	}}
	c := newTestComposer(t, &stubPortfolio{}, &stubQuotes{}, biases, &stubSignalStore{}, newMemScoreCache())
	c.now = func() time.Time { return now }

	score, err := c.Score(context.Background(), "u1")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	// bias component is 100 - 3*15 = 55 at full recency weight, so the
	// base is (50+55+50)/3 and the improvement factor is 1.06.
	if score.Score != 54.77 {
		t.Fatalf("score = %v, want 54.77", score.Score)
	}
	if score.Improvement != 3.1 {
		t.Fatalf("improvement = %v, want 3.1", score.Improvement)
	}
	if score.BiasesCorrected != 3 {
		t.Fatalf("biasesCorrected = %d, want 3", score.BiasesCorrected)
	}
}

func TestScoreBiasRecencyDecay(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	// A 29-day-old finding is weighted at the 0.1 floor.
	biases := &stubBiasStore{recent: []models.BiasAnalysis{
		{Severity: models.SeverityMedium, DetectedAt: now.Add(-29 * 24 * time.Hour)},
	}}
	c := newTestComposer(t, &stubPortfolio{}, &stubQuotes{}, biases, &stubSignalStore{}, newMemScoreCache())
	c.now = func() time.Time { return now }

	got := c.biasScore(biases.recent, now)
	want := 100 - 10*0.1
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("biasScore = %v, want %v", got, want)
	}
}

func TestScoreCapsAtHundred(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	portfolio := &stubPortfolio{holdings: []models.Holding{
		{Symbol: "NVDA", Shares: 1, AverageCost: 10, AddedAt: now.Add(-24 * time.Hour)},
	}}
	quotes := &stubQuotes{quotes: map[string]models.Quote{
		"NVDA": {Symbol: "NVDA", Price: 100},
	}}
	signals := &stubSignalStore{recent: []models.AlphaSignal{
		{Confidence: 1, Timestamp: now},
		{Confidence: 1, Timestamp: now},
	}}
	biases := &stubBiasStore{recent: []models.BiasAnalysis{
		{Severity: models.SeverityLow, DetectedAt: now.Add(-29 * 24 * time.Hour)},
	}}
	c := newTestComposer(t, portfolio, quotes, biases, signals, newMemScoreCache())
	c.now = func() time.Time { return now }

	score, err := c.Score(context.Background(), "u1")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score.Score != 100 {
		t.Fatalf("score = %v, want capped 100", score.Score)
	}
}

func TestScoreNoRecentSignalsIsNeutral(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	// All signals fall outside the seven-day window.
	signals := []models.AlphaSignal{
		{Confidence: 0.95, Timestamp: now.Add(-10 * 24 * time.Hour)},
		{Confidence: 0.9, Timestamp: now.Add(-20 * 24 * time.Hour)},
	}
	c := newTestComposer(t, &stubPortfolio{}, &stubQuotes{}, &stubBiasStore{},
		&stubSignalStore{recent: signals}, newMemScoreCache())
	c.now = func() time.Time { return now }

	if got := c.signalScore(signals, now); got != 50 {
		t.Fatalf("signalScore = %v, want 50", got)
	}

	// Missed opportunities still count stale high-confidence signals.
	score, err := c.Score(context.Background(), "u1")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score.OpportunitiesMissed != 2 {
		t.Fatalf("opportunitiesMissed = %d, want 2", score.OpportunitiesMissed)
	}
}

func TestScoreCacheHitSkipsStores(t *testing.T) {
	cached := models.AlphaScore{UserID: "u1", Score: 72.5, Period: "30d"}
	scores := newMemScoreCache()
	scores.scores["u1"] = cached

	// Failing stores prove the cached path never touches them.
	c := newTestComposer(t,
		&stubPortfolio{err: errors.New("down")}, &stubQuotes{},
		&stubBiasStore{err: errors.New("down")},
		&stubSignalStore{err: errors.New("down")}, scores)

	score, err := c.Score(context.Background(), "u1")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score != cached {
		t.Fatalf("score = %+v, want cached %+v", score, cached)
	}
}

func TestScoreStoreFailureFailsCall(t *testing.T) {
	c := newTestComposer(t, &stubPortfolio{}, &stubQuotes{},
		&stubBiasStore{err: errors.New("clickhouse down")}, &stubSignalStore{}, newMemScoreCache())

	if _, err := c.Score(context.Background(), "u1"); err == nil {
		t.Fatal("expected error when bias store is down")
	}
}

func TestScoreComputedOnceThenCached(t *testing.T) {
	scores := newMemScoreCache()
	c := newTestComposer(t, &stubPortfolio{}, &stubQuotes{}, &stubBiasStore{}, &stubSignalStore{}, scores)

	first, err := c.Score(context.Background(), "u1")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if _, ok := scores.scores["u1"]; !ok {
		t.Fatal("computed score was not cached")
	}
	second, err := c.Score(context.Background(), "u1")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if first != second {
		t.Fatalf("cached score differs: %+v vs %+v", first, second)
	}
}
