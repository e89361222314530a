package biases

import (
	"fmt"

	"AlphaPulse/internal/domain/models"
	"AlphaPulse/internal/domain/service"
)

// Confirmation flags portfolios concentrated in positions that already
// confirmed the owner's thesis, more than 70% of value in holdings up over 20%.
type Confirmation struct{}

func NewConfirmation() *Confirmation { return &Confirmation{} }

var _ service.BiasDetector = (*Confirmation)(nil)

func (d *Confirmation) Name() string { return models.BiasConfirmation }

func (d *Confirmation) Detect(s models.PortfolioSnapshot) (models.BiasAnalysis, bool) {
	if len(s.Holdings) < 2 {
		return models.BiasAnalysis{}, false
	}
	share := valueShareWhere(s, func(h models.Holding) bool {
		return h.GainLossPercent > 20
	})
	if share <= 0.7 {
		return models.BiasAnalysis{}, false
	}
	return models.BiasAnalysis{
		BiasType: models.BiasConfirmation,
		Severity: models.SeverityHigh,
		Description: fmt.Sprintf(
			"%.0f%% of your portfolio value sits in positions already up more than 20%%.",
			share*100),
		Recommendation: "Seek out bearish research on your winners before adding to them.",
	}, true
}
