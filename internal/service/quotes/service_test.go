package quotes

import (
	"context"
	"errors"
	"testing"
	"time"

	"AlphaPulse/internal/domain/models"
	localcache "AlphaPulse/internal/service/cache"
	"AlphaPulse/pkg/cache"
	"AlphaPulse/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordEventPublished(string)     {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)   {}

type stubProvider struct {
	quote models.Quote
	err   error
	calls int
}

func (p *stubProvider) Quote(context.Context, string) (models.Quote, error) {
	p.calls++
	if p.err != nil {
		return models.Quote{}, p.err
	}
	return p.quote, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func newTestService(t *testing.T, provider *stubProvider) *Service {
	t.Helper()
	return New(localcache.NewTTLCache(), cache.NewMemoryCache(), provider,
		nopMetrics{}, testLogger(t), time.Minute)
}

func TestQuoteFallsBackToProvider(t *testing.T) {
	provider := &stubProvider{quote: models.Quote{Symbol: "AAPL", Price: 150}}
	s := newTestService(t, provider)

	q, err := s.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Price != 150 {
		t.Fatalf("price = %v, want 150", q.Price)
	}
	if provider.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.calls)
	}

	// Second lookup is served by the shared cache write-back.
	if _, err := s.Quote(context.Background(), "AAPL"); err != nil {
		t.Fatalf("quote: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("provider calls = %d, want still 1", provider.calls)
	}
}

func TestQuoteProviderFailurePropagates(t *testing.T) {
	provider := &stubProvider{err: errors.New("finnhub down")}
	s := newTestService(t, provider)

	if _, err := s.Quote(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error when all tiers miss and provider fails")
	}
}

func TestWarmServesLiveTier(t *testing.T) {
	provider := &stubProvider{err: errors.New("should not be called")}
	s := newTestService(t, provider)

	s.Warm(&models.Tick{Symbol: "AAPL", Price: 151.5, Timestamp: time.Now().Unix()})

	q, err := s.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Price != 151.5 {
		t.Fatalf("price = %v, want warmed 151.5", q.Price)
	}
	if provider.calls != 0 {
		t.Fatal("warmed symbol must not hit the provider")
	}
}

func TestWarmExtendsDayRange(t *testing.T) {
	s := newTestService(t, &stubProvider{})
	now := time.Now().Unix()

	s.Warm(&models.Tick{Symbol: "AAPL", Price: 150, Timestamp: now})
	// Seed day stats by warming over a full quote.
	s.live.Set("quote:AAPL", models.Quote{Symbol: "AAPL", Price: 150, High: 151, Low: 149, Open: 149.5}, time.Minute)

	q := s.Warm(&models.Tick{Symbol: "AAPL", Price: 152, Timestamp: now})
	if q.High != 152 {
		t.Fatalf("high = %v, want extended to 152", q.High)
	}
	if q.Low != 149 {
		t.Fatalf("low = %v, want unchanged 149", q.Low)
	}
}

func TestProcessTickMirrorsToSharedCache(t *testing.T) {
	s := newTestService(t, &stubProvider{})
	ctx := context.Background()

	tick := &models.Tick{Symbol: "AAPL", Price: 153, Timestamp: time.Now().Unix()}
	if err := s.ProcessTick(ctx, tick); err != nil {
		t.Fatalf("process tick: %v", err)
	}

	var q models.Quote
	if err := s.shared.Get(ctx, "quote:AAPL", &q); err != nil {
		t.Fatalf("shared get: %v", err)
	}
	if q.Price != 153 {
		t.Fatalf("mirrored price = %v, want 153", q.Price)
	}
}

func TestProcessTickIgnoresEmptyTick(t *testing.T) {
	s := newTestService(t, &stubProvider{})
	if err := s.ProcessTick(context.Background(), &models.Tick{}); err != nil {
		t.Fatalf("empty tick should be a no-op, got %v", err)
	}
}
