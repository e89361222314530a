package scorecache

import (
	"context"
	"fmt"
	"time"

	"AlphaPulse/internal/domain/models"
	"AlphaPulse/internal/domain/service"
	"AlphaPulse/pkg/cache"
)

const keyPrefix = "alpha_score"

func userKey(userID string) string {
	return cache.GenerateKey(keyPrefix, userID)
}

// ErrMiss reports that no score is cached for the user.
var ErrMiss = cache.ErrCacheMiss

// Cache stores composed scores in the shared cache, one key per user.
// The whole score is written in one Set so readers never see a partial value.
type Cache struct {
	backend cache.Service
}

// New creates the score cache.
func New(backend cache.Service) *Cache {
	return &Cache{backend: backend}
}

var _ service.ScoreCache = (*Cache)(nil)

func (c *Cache) Get(ctx context.Context, userID string) (models.AlphaScore, error) {
	var score models.AlphaScore
	if err := c.backend.Get(ctx, userKey(userID), &score); err != nil {
		return models.AlphaScore{}, err
	}
	return score, nil
}

func (c *Cache) Put(ctx context.Context, userID string, score models.AlphaScore, ttl time.Duration) error {
	if err := c.backend.Set(ctx, userKey(userID), score, ttl); err != nil {
		return fmt.Errorf("cache score: %w", err)
	}
	return nil
}

func (c *Cache) Invalidate(ctx context.Context, userID string) error {
	return c.backend.Delete(ctx, userKey(userID))
}
