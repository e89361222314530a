package usecase

import (
	"context"
	"testing"

	"AlphaPulse/internal/domain/models"
)

func TestPortfolioEventInvalidatesScore(t *testing.T) {
	scores := newMemScoreCache()
	scores.scores["u1"] = models.AlphaScore{UserID: "u1", Score: 70}
	h := NewPortfolioEventsHandler("portfolio.events", scores, nopMetrics{}, testLogger(t))

	if h.Topic() != "portfolio.events" {
		t.Fatalf("topic = %q", h.Topic())
	}
	msg := []byte(`{"userId":"u1","action":"buy","symbol":"AAPL"}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, ok := scores.scores["u1"]; ok {
		t.Fatal("score should be invalidated on portfolio change")
	}
}

func TestPortfolioEventWithoutUserIsSkipped(t *testing.T) {
	scores := newMemScoreCache()
	h := NewPortfolioEventsHandler("portfolio.events", scores, nopMetrics{}, testLogger(t))

	if err := h.Handle(context.Background(), []byte(`{"action":"buy"}`)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if scores.invalidated != 0 {
		t.Fatal("message without userId must not invalidate")
	}
}

func TestPortfolioEventMalformedPayload(t *testing.T) {
	h := NewPortfolioEventsHandler("portfolio.events", newMemScoreCache(), nopMetrics{}, testLogger(t))

	if err := h.Handle(context.Background(), []byte(`{not json`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
