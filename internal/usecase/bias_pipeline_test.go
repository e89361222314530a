package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"AlphaPulse/internal/domain/models"
	domsvc "AlphaPulse/internal/domain/service"
)

type fixedDetector struct {
	name    string
	finding models.BiasAnalysis
	found   bool
}

func (d *fixedDetector) Name() string { return d.name }

func (d *fixedDetector) Detect(models.PortfolioSnapshot) (models.BiasAnalysis, bool) {
	return d.finding, d.found
}

type panickyDetector struct{}

func (panickyDetector) Name() string { return "panicky" }

func (panickyDetector) Detect(models.PortfolioSnapshot) (models.BiasAnalysis, bool) {
	panic("boom")
}

func newTestPipeline(t *testing.T, detectors []domsvc.BiasDetector, store *stubBiasStore,
	events *stubEvents, scores *memScoreCache) *BiasPipeline {
	t.Helper()
	log := testLogger(t)
	valuation := NewValuationAggregator(&stubPortfolio{}, &stubQuotes{}, nopMetrics{}, log)
	return NewBiasPipeline(valuation, detectors, store, events, scores, nopMetrics{}, log)
}

func TestDetectStampsAndPersists(t *testing.T) {
	store := &stubBiasStore{}
	events := &stubEvents{}
	scores := newMemScoreCache()
	scores.scores["u1"] = models.AlphaScore{UserID: "u1"}

	p := newTestPipeline(t, []domsvc.BiasDetector{
		&fixedDetector{name: "herding", finding: models.BiasAnalysis{BiasType: models.BiasHerding, Severity: models.SeverityMedium}, found: true},
	}, store, events, scores)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	findings, err := p.Detect(context.Background(), "u1")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	f := findings[0]
	if !strings.HasPrefix(f.ID, "bias_") {
		t.Fatalf("id = %q, want bias_ prefix", f.ID)
	}
	if f.UserID != "u1" || !f.DetectedAt.Equal(now) {
		t.Fatalf("finding not stamped: %+v", f)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("inserted batches = %d, want 1", len(store.inserted))
	}
	if events.biasBatches != 1 {
		t.Fatalf("published batches = %d, want 1", events.biasBatches)
	}
	if _, ok := scores.scores["u1"]; ok {
		t.Fatal("cached score should be invalidated after detection")
	}
}

func TestDetectPanickingDetectorIsIsolated(t *testing.T) {
	store := &stubBiasStore{}
	p := newTestPipeline(t, []domsvc.BiasDetector{
		panickyDetector{},
		&fixedDetector{name: "anchoring", finding: models.BiasAnalysis{BiasType: models.BiasAnchoring}, found: true},
	}, store, &stubEvents{}, newMemScoreCache())

	findings, err := p.Detect(context.Background(), "u1")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(findings) != 1 || findings[0].BiasType != models.BiasAnchoring {
		t.Fatalf("expected the healthy detector's finding, got %+v", findings)
	}
}

func TestDetectNothingFoundSkipsPersistence(t *testing.T) {
	store := &stubBiasStore{}
	events := &stubEvents{}
	p := newTestPipeline(t, []domsvc.BiasDetector{
		&fixedDetector{name: "herding", found: false},
	}, store, events, newMemScoreCache())

	findings, err := p.Detect(context.Background(), "u1")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if findings == nil || len(findings) != 0 {
		t.Fatalf("findings = %v, want empty non-nil", findings)
	}
	if len(store.inserted) != 0 || events.biasBatches != 0 {
		t.Fatal("empty result must not hit store or broker")
	}
}

func TestDetectPersistFailureFails(t *testing.T) {
	store := &stubBiasStore{err: errors.New("clickhouse down")}
	p := newTestPipeline(t, []domsvc.BiasDetector{
		&fixedDetector{name: "herding", finding: models.BiasAnalysis{BiasType: models.BiasHerding}, found: true},
	}, store, &stubEvents{}, newMemScoreCache())

	if _, err := p.Detect(context.Background(), "u1"); err == nil {
		t.Fatal("expected error when persistence fails")
	}
}

func TestDetectPublishFailureIsBestEffort(t *testing.T) {
	store := &stubBiasStore{}
	events := &stubEvents{err: errors.New("kafka down")}
	p := newTestPipeline(t, []domsvc.BiasDetector{
		&fixedDetector{name: "herding", finding: models.BiasAnalysis{BiasType: models.BiasHerding}, found: true},
	}, store, events, newMemScoreCache())

	findings, err := p.Detect(context.Background(), "u1")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("findings lost on publish failure: %v", findings)
	}
	if len(store.inserted) != 1 {
		t.Fatal("persistence must happen before publish")
	}
}
