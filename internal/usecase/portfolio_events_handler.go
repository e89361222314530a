package usecase

import (
	"context"
	"encoding/json"

	domrepo "AlphaPulse/internal/domain/repository"
	domsvc "AlphaPulse/internal/domain/service"
	pkgkafka "AlphaPulse/pkg/kafka"
	"AlphaPulse/pkg/logger"
)

// PortfolioEventsHandler consumes portfolio mutation events emitted by the
// CRUD service and invalidates the affected user's cached score.
type PortfolioEventsHandler struct {
	topic   string
	cache   domsvc.ScoreCache
	metrics domrepo.Metrics
	log     *logger.Logger
}

func NewPortfolioEventsHandler(topic string, cache domsvc.ScoreCache, metrics domrepo.Metrics, log *logger.Logger) *PortfolioEventsHandler {
	return &PortfolioEventsHandler{topic: topic, cache: cache, metrics: metrics, log: log}
}

func (h *PortfolioEventsHandler) Topic() string { return h.topic }

// incoming message schema: {userId, action, symbol}
func (h *PortfolioEventsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		UserID string `json:"userId"`
		Action string `json:"action"`
		Symbol string `json:"symbol"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.UserID == "" {
		h.metrics.RecordError("consumer_no_user")
		return nil
	}
	if err := h.cache.Invalidate(ctx, m.UserID); err != nil {
		h.metrics.RecordError("consumer_invalidate")
		return err
	}
	h.log.Debug("score cache invalidated",
		logger.String("user", m.UserID), logger.String("action", m.Action))
	return nil
}

var _ pkgkafka.MessageHandler = (*PortfolioEventsHandler)(nil)
