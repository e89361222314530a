package biases

import (
	"fmt"
	"time"

	"AlphaPulse/internal/domain/models"
	"AlphaPulse/internal/domain/service"
)

// LossAversion flags portfolios where a third or more of positions sit on a
// loss deeper than 10% and have been held for over 60 days.
type LossAversion struct {
	now func() time.Time
}

func NewLossAversion() *LossAversion {
	return &LossAversion{now: time.Now}
}

var _ service.BiasDetector = (*LossAversion)(nil)

func (d *LossAversion) Name() string { return models.BiasLossAversion }

func (d *LossAversion) Detect(s models.PortfolioSnapshot) (models.BiasAnalysis, bool) {
	if len(s.Holdings) == 0 {
		return models.BiasAnalysis{}, false
	}
	now := d.now()
	stale := countWhere(s, func(h models.Holding) bool {
		return h.GainLossPercent < -10 && heldLongerThan(h, 60*24*time.Hour, now)
	})
	if stale*3 < len(s.Holdings) {
		return models.BiasAnalysis{}, false
	}
	return models.BiasAnalysis{
		BiasType: models.BiasLossAversion,
		Severity: models.SeverityMedium,
		Description: fmt.Sprintf(
			"%d of your %d positions have been down more than 10%% for over two months.",
			stale, len(s.Holdings)),
		Recommendation: "Review long-held losing positions and set exit rules instead of waiting to break even.",
	}, true
}
