package biases

import (
	"fmt"

	"AlphaPulse/internal/domain/models"
	"AlphaPulse/internal/domain/service"
)

// crowdFavorites are the names retail flows concentrate in.
var crowdFavorites = map[string]bool{
	"AAPL": true, "MSFT": true, "GOOGL": true, "AMZN": true,
	"NVDA": true, "TSLA": true, "META": true,
}

// Herding flags portfolios with more than half their value in the
// crowd-favorite mega caps.
type Herding struct{}

func NewHerding() *Herding { return &Herding{} }

var _ service.BiasDetector = (*Herding)(nil)

func (d *Herding) Name() string { return models.BiasHerding }

func (d *Herding) Detect(s models.PortfolioSnapshot) (models.BiasAnalysis, bool) {
	if len(s.Holdings) < 2 {
		return models.BiasAnalysis{}, false
	}
	share := valueShareWhere(s, func(h models.Holding) bool {
		return crowdFavorites[h.Symbol]
	})
	if share <= 0.5 {
		return models.BiasAnalysis{}, false
	}
	return models.BiasAnalysis{
		BiasType: models.BiasHerding,
		Severity: models.SeverityMedium,
		Description: fmt.Sprintf(
			"%.0f%% of your portfolio value is in widely crowded mega-cap names.", share*100),
		Recommendation: "Balance popular names with positions backed by your own independent research.",
	}, true
}
