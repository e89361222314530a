package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"AlphaPulse/internal/domain/models"
)

type fixedModel struct{}

func (fixedModel) Generate(q models.Quote, _ models.RiskSettings) (models.AlphaSignal, bool) {
	if q.ChangePercent == 0 {
		return models.AlphaSignal{}, false
	}
	return models.AlphaSignal{
		Asset:      q.Symbol,
		Direction:  models.DirectionBullish,
		Confidence: 0.7,
		Category:   "momentum",
	}, true
}

func newTestGenerator(t *testing.T, portfolio *stubPortfolio, settings *stubSettings,
	quotes *stubQuotes, store *stubSignalStore, events *stubEvents, scores *memScoreCache) *SignalGenerator {
	t.Helper()
	return NewSignalGenerator(portfolio, settings, quotes, fixedModel{}, store, events, scores,
		nopMetrics{}, testLogger(t))
}

func TestGenerateStampsAndPersists(t *testing.T) {
	portfolio := &stubPortfolio{holdings: []models.Holding{{Symbol: "AAPL"}}}
	settings := &stubSettings{settings: models.RiskSettings{UserID: "u1", RiskTolerance: "moderate"}}
	quotes := &stubQuotes{quotes: map[string]models.Quote{
		"AAPL": {Symbol: "AAPL", Price: 150, ChangePercent: 2},
	}}
	store := &stubSignalStore{}
	events := &stubEvents{}
	scores := newMemScoreCache()
	scores.scores["u1"] = models.AlphaScore{UserID: "u1"}

	g := newTestGenerator(t, portfolio, settings, quotes, store, events, scores)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	signals, err := g.Generate(context.Background(), "u1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	s := signals[0]
	if !strings.HasPrefix(s.ID, "signal_") {
		t.Fatalf("id = %q, want signal_ prefix", s.ID)
	}
	if s.UserID != "u1" || !s.Timestamp.Equal(now) {
		t.Fatalf("signal not stamped: %+v", s)
	}
	if len(store.inserted) != 1 || events.signalBatches != 1 {
		t.Fatalf("persistence/publish mismatch: %d batches, %d published", len(store.inserted), events.signalBatches)
	}
	if _, ok := scores.scores["u1"]; ok {
		t.Fatal("cached score should be invalidated after generation")
	}
}

func TestGenerateQuoteFailureSkipsOnlyThatSymbol(t *testing.T) {
	portfolio := &stubPortfolio{holdings: []models.Holding{{Symbol: "AAPL"}, {Symbol: "MSFT"}}}
	quotes := &stubQuotes{
		quotes: map[string]models.Quote{"MSFT": {Symbol: "MSFT", Price: 300, ChangePercent: -1}},
		errs:   map[string]error{"AAPL": errors.New("provider down")},
	}
	g := newTestGenerator(t, portfolio, &stubSettings{}, quotes, &stubSignalStore{}, &stubEvents{}, newMemScoreCache())

	signals, err := g.Generate(context.Background(), "u1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(signals) != 1 || signals[0].Asset != "MSFT" {
		t.Fatalf("expected only MSFT signal, got %+v", signals)
	}
}

func TestGenerateFlatQuoteProducesNoSignal(t *testing.T) {
	portfolio := &stubPortfolio{holdings: []models.Holding{{Symbol: "AAPL"}}}
	quotes := &stubQuotes{quotes: map[string]models.Quote{
		"AAPL": {Symbol: "AAPL", Price: 150, ChangePercent: 0},
	}}
	store := &stubSignalStore{}
	g := newTestGenerator(t, portfolio, &stubSettings{}, quotes, store, &stubEvents{}, newMemScoreCache())

	signals, err := g.Generate(context.Background(), "u1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if signals == nil || len(signals) != 0 {
		t.Fatalf("signals = %v, want empty non-nil", signals)
	}
	if len(store.inserted) != 0 {
		t.Fatal("empty batch must not be inserted")
	}
}

func TestGenerateSettingsFailureFails(t *testing.T) {
	portfolio := &stubPortfolio{holdings: []models.Holding{{Symbol: "AAPL"}}}
	settings := &stubSettings{err: errors.New("postgres down")}
	g := newTestGenerator(t, portfolio, settings, &stubQuotes{}, &stubSignalStore{}, &stubEvents{}, newMemScoreCache())

	if _, err := g.Generate(context.Background(), "u1"); err == nil {
		t.Fatal("expected error when settings read fails")
	}
}

func TestGenerateFansOutInHoldingOrder(t *testing.T) {
	symbols := []string{"AAPL", "MSFT", "GOOG", "NVDA", "TSLA", "AMZN", "META", "NFLX"}
	holdings := make([]models.Holding, 0, len(symbols))
	quoteMap := make(map[string]models.Quote, len(symbols))
	for _, sym := range symbols {
		holdings = append(holdings, models.Holding{Symbol: sym})
		quoteMap[sym] = models.Quote{Symbol: sym, Price: 100, ChangePercent: 1}
	}
	quotes := &stubQuotes{
		quotes: quoteMap,
		errs:   map[string]error{"GOOG": errors.New("provider down")},
	}
	g := newTestGenerator(t, &stubPortfolio{holdings: holdings}, &stubSettings{}, quotes,
		&stubSignalStore{}, &stubEvents{}, newMemScoreCache())

	signals, err := g.Generate(context.Background(), "u1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := []string{"AAPL", "MSFT", "NVDA", "TSLA", "AMZN", "META", "NFLX"}
	if len(signals) != len(want) {
		t.Fatalf("got %d signals, want %d", len(signals), len(want))
	}
	for i, sym := range want {
		if signals[i].Asset != sym {
			t.Fatalf("signals[%d].Asset = %q, want %q", i, signals[i].Asset, sym)
		}
	}
}
