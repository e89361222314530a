package usecase

import (
	"context"
	"errors"
	"testing"

	"AlphaPulse/internal/domain/models"
)

func TestSnapshotValuesHoldings(t *testing.T) {
	portfolio := &stubPortfolio{holdings: []models.Holding{
		{Symbol: "AAPL", Shares: 10, AverageCost: 100},
	}}
	quotes := &stubQuotes{quotes: map[string]models.Quote{
		"AAPL": {Symbol: "AAPL", Price: 150},
	}}
	v := NewValuationAggregator(portfolio, quotes, nopMetrics{}, testLogger(t))

	snap, err := v.Snapshot(context.Background(), "u1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	h := snap.Holdings[0]
	if h.CurrentPrice != 150 || h.Value != 1500 || h.GainLoss != 500 || h.GainLossPercent != 50 {
		t.Fatalf("unexpected valuation: %+v", h)
	}
	if snap.TotalValue != 1500 || snap.TotalGainLoss != 500 {
		t.Fatalf("unexpected totals: %+v", snap)
	}
}

func TestSnapshotDegradesOnQuoteFailure(t *testing.T) {
	portfolio := &stubPortfolio{holdings: []models.Holding{
		{Symbol: "AAPL", Shares: 10, AverageCost: 100},
	}}
	quotes := &stubQuotes{errs: map[string]error{"AAPL": errors.New("provider down")}}
	v := NewValuationAggregator(portfolio, quotes, nopMetrics{}, testLogger(t))

	snap, err := v.Snapshot(context.Background(), "u1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	h := snap.Holdings[0]
	if h.CurrentPrice != 100 || h.Value != 1000 || h.GainLoss != 0 || h.GainLossPercent != 0 {
		t.Fatalf("expected cost-basis fallback, got %+v", h)
	}
}

func TestSnapshotQuoteFailureIsIsolated(t *testing.T) {
	portfolio := &stubPortfolio{holdings: []models.Holding{
		{Symbol: "AAPL", Shares: 10, AverageCost: 100},
		{Symbol: "MSFT", Shares: 2, AverageCost: 200},
	}}
	quotes := &stubQuotes{
		quotes: map[string]models.Quote{"MSFT": {Symbol: "MSFT", Price: 300}},
		errs:   map[string]error{"AAPL": errors.New("provider down")},
	}
	v := NewValuationAggregator(portfolio, quotes, nopMetrics{}, testLogger(t))

	snap, err := v.Snapshot(context.Background(), "u1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Holdings[0].Value != 1000 {
		t.Fatalf("degraded holding value = %v, want 1000", snap.Holdings[0].Value)
	}
	if snap.Holdings[1].Value != 600 || snap.Holdings[1].GainLoss != 200 {
		t.Fatalf("healthy holding mispriced: %+v", snap.Holdings[1])
	}
	if snap.TotalValue != 1600 || snap.TotalGainLoss != 200 {
		t.Fatalf("unexpected totals: %+v", snap)
	}
}

func TestSnapshotPortfolioReadFailureFails(t *testing.T) {
	portfolio := &stubPortfolio{err: errors.New("postgres down")}
	v := NewValuationAggregator(portfolio, &stubQuotes{}, nopMetrics{}, testLogger(t))

	if _, err := v.Snapshot(context.Background(), "u1"); err == nil {
		t.Fatal("expected error when portfolio read fails")
	}
}
