package biases

import (
	"time"

	"AlphaPulse/internal/domain/models"
)

// Shared feature helpers over a valuation snapshot. Detectors only read
// the snapshot, never mutate it.

func topHoldingShare(s models.PortfolioSnapshot) (models.Holding, float64) {
	var top models.Holding
	if s.TotalValue <= 0 {
		return top, 0
	}
	for _, h := range s.Holdings {
		if h.Value > top.Value {
			top = h
		}
	}
	return top, top.Value / s.TotalValue
}

func valueShareWhere(s models.PortfolioSnapshot, keep func(models.Holding) bool) float64 {
	if s.TotalValue <= 0 {
		return 0
	}
	var sum float64
	for _, h := range s.Holdings {
		if keep(h) {
			sum += h.Value
		}
	}
	return sum / s.TotalValue
}

func countWhere(s models.PortfolioSnapshot, keep func(models.Holding) bool) int {
	n := 0
	for _, h := range s.Holdings {
		if keep(h) {
			n++
		}
	}
	return n
}

func heldLongerThan(h models.Holding, d time.Duration, now time.Time) bool {
	return !h.AddedAt.IsZero() && now.Sub(h.AddedAt) > d
}
