package quotes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"AlphaPulse/internal/domain/models"
	drepo "AlphaPulse/internal/domain/repository"
	"AlphaPulse/internal/domain/service"
	localcache "AlphaPulse/internal/service/cache"
	"AlphaPulse/pkg/cache"
	"AlphaPulse/pkg/logger"
)

const cachePrefix = "quote"

func symbolKey(symbol string) string {
	return cache.GenerateKey(cachePrefix, symbol)
}

// Service resolves quotes through three tiers: the live stream cache, the
// shared Redis quote cache, then the REST provider.
type Service struct {
	live     *localcache.TTLCache
	shared   cache.Service
	provider service.QuoteProvider
	metrics  drepo.Metrics
	log      *logger.Logger
	ttl      time.Duration
}

// New creates the tiered quote service.
func New(live *localcache.TTLCache, shared cache.Service, provider service.QuoteProvider,
	metrics drepo.Metrics, log *logger.Logger, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Service{live: live, shared: shared, provider: provider, metrics: metrics, log: log, ttl: ttl}
}

var _ service.QuoteProvider = (*Service)(nil)

// Quote returns the freshest quote available for symbol.
func (s *Service) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	if v, ok := s.live.Get(symbolKey(symbol)); ok {
		if q, ok := v.(models.Quote); ok {
			return q, nil
		}
	}

	var q models.Quote
	err := s.shared.Get(ctx, symbolKey(symbol), &q)
	if err == nil {
		return q, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// Cache outage degrades to provider-only resolution.
		s.log.Warn("quote cache read failed", logger.String("symbol", symbol), logger.Error(err))
		s.metrics.RecordError("quote_cache_read")
	}

	start := time.Now()
	q, err = s.provider.Quote(ctx, symbol)
	s.metrics.RecordLatency("quote_fetch", time.Since(start).Seconds())
	if err != nil {
		s.metrics.RecordError("quote_fetch")
		return models.Quote{}, fmt.Errorf("fetch quote: %w", err)
	}
	s.metrics.RecordLastPrice(symbol, q.Price)

	if err := s.shared.Set(ctx, symbolKey(symbol), q, s.ttl); err != nil {
		s.log.Warn("quote cache write failed", logger.String("symbol", symbol), logger.Error(err))
		s.metrics.RecordError("quote_cache_write")
	}
	return q, nil
}

// ProcessTick warms the live cache and mirrors the last price into the
// shared cache so other instances see it too.
func (s *Service) ProcessTick(ctx context.Context, tick *models.Tick) error {
	q := s.Warm(tick)
	if q.Symbol == "" {
		return nil
	}
	if err := s.shared.Set(ctx, symbolKey(q.Symbol), q, s.ttl); err != nil {
		s.metrics.RecordError("quote_cache_write")
		return fmt.Errorf("mirror tick: %w", err)
	}
	return nil
}

// Warm stores a live tick so subsequent lookups skip the provider.
func (s *Service) Warm(tick *models.Tick) models.Quote {
	if tick == nil || tick.Symbol == "" {
		return models.Quote{}
	}
	prev, ok := s.live.Get(symbolKey(tick.Symbol))
	q := models.Quote{Symbol: tick.Symbol, Price: tick.Price, FetchedAt: time.Unix(tick.Timestamp, 0)}
	if ok {
		// Ticks carry only last price; keep the day stats from the last full quote.
		if pq, ok2 := prev.(models.Quote); ok2 {
			q.Change = pq.Change + (tick.Price - pq.Price)
			q.ChangePercent = pq.ChangePercent
			q.High = pq.High
			q.Low = pq.Low
			q.Open = pq.Open
			if q.High > 0 && tick.Price > q.High {
				q.High = tick.Price
			}
			if q.Low > 0 && tick.Price < q.Low {
				q.Low = tick.Price
			}
		}
	}
	s.live.Set(symbolKey(tick.Symbol), q, s.ttl)
	s.metrics.RecordLastPrice(tick.Symbol, tick.Price)
	return q
}
