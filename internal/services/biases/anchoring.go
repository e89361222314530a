package biases

import (
	"fmt"

	"AlphaPulse/internal/domain/models"
	"AlphaPulse/internal/domain/service"
)

// Anchoring flags positions still held while down more than 25% from cost,
// the purchase price acting as the anchor.
type Anchoring struct{}

func NewAnchoring() *Anchoring { return &Anchoring{} }

var _ service.BiasDetector = (*Anchoring)(nil)

func (d *Anchoring) Name() string { return models.BiasAnchoring }

func (d *Anchoring) Detect(s models.PortfolioSnapshot) (models.BiasAnalysis, bool) {
	anchored := countWhere(s, func(h models.Holding) bool {
		return h.GainLossPercent < -25
	})
	if anchored == 0 {
		return models.BiasAnalysis{}, false
	}
	return models.BiasAnalysis{
		BiasType: models.BiasAnchoring,
		Severity: models.SeverityLow,
		Description: fmt.Sprintf(
			"%d position(s) are down more than 25%% from your purchase price.", anchored),
		Recommendation: "Judge each position on today's outlook, not on what you paid for it.",
	}, true
}
