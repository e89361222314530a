package biases

import (
	"fmt"

	"AlphaPulse/internal/domain/models"
	"AlphaPulse/internal/domain/service"
)

// Overconfidence flags concentration risk, a single holding above 40% of
// total value, or a large account spread over fewer than three positions.
type Overconfidence struct{}

func NewOverconfidence() *Overconfidence { return &Overconfidence{} }

var _ service.BiasDetector = (*Overconfidence)(nil)

func (d *Overconfidence) Name() string { return models.BiasOverconfidence }

func (d *Overconfidence) Detect(s models.PortfolioSnapshot) (models.BiasAnalysis, bool) {
	if len(s.Holdings) == 0 {
		return models.BiasAnalysis{}, false
	}
	top, share := topHoldingShare(s)
	if len(s.Holdings) >= 3 && share > 0.4 {
		return models.BiasAnalysis{
			BiasType: models.BiasOverconfidence,
			Severity: models.SeverityMedium,
			Description: fmt.Sprintf(
				"%s alone is %.0f%% of your portfolio value.", top.Symbol, share*100),
			Recommendation: "Cap single-position size and rebalance the excess into other ideas.",
		}, true
	}
	if len(s.Holdings) < 3 && s.TotalValue > 10000 {
		return models.BiasAnalysis{
			BiasType: models.BiasOverconfidence,
			Severity: models.SeverityMedium,
			Description: fmt.Sprintf(
				"Over $10k is concentrated in only %d position(s).", len(s.Holdings)),
			Recommendation: "Spread capital across more positions to reduce single-name risk.",
		}, true
	}
	return models.BiasAnalysis{}, false
}
