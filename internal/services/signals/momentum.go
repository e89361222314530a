package signals

import (
	"fmt"

	"AlphaPulse/internal/domain/models"
	"AlphaPulse/internal/domain/service"
)

// Momentum derives a directional signal from the day's quote: change
// percent sets the direction, position in the day range and the open
// corroborate it, risk tolerance scales conviction.
type Momentum struct{}

func NewMomentum() *Momentum { return &Momentum{} }

var _ service.SignalModel = (*Momentum)(nil)

func (m *Momentum) Generate(q models.Quote, settings models.RiskSettings) (models.AlphaSignal, bool) {
	if q.Price <= 0 {
		return models.AlphaSignal{}, false
	}
	// Flat days carry no edge.
	if q.ChangePercent > -0.25 && q.ChangePercent < 0.25 {
		return models.AlphaSignal{}, false
	}

	direction := models.DirectionBullish
	if q.ChangePercent < 0 {
		direction = models.DirectionBearish
	}

	rangePos := 0.5
	if q.High > q.Low {
		rangePos = (q.Price - q.Low) / (q.High - q.Low)
	}

	// Each quote field that agrees with the direction counts as a source.
	sources := 1 // the change itself
	if direction == models.DirectionBullish {
		if rangePos > 0.6 {
			sources++
		}
		if q.Open > 0 && q.Price > q.Open {
			sources++
		}
	} else {
		if rangePos < 0.4 {
			sources++
		}
		if q.Open > 0 && q.Price < q.Open {
			sources++
		}
	}

	magnitude := q.ChangePercent
	if magnitude < 0 {
		magnitude = -magnitude
	}
	confidence := magnitude / 5 * (0.6 + 0.2*float64(sources))
	switch settings.RiskTolerance {
	case "conservative":
		confidence *= 0.8
	case "aggressive":
		confidence *= 1.15
	}
	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}

	horizon := models.HorizonMedium
	switch settings.RiskTolerance {
	case "conservative":
		horizon = models.HorizonLong
	case "aggressive":
		horizon = models.HorizonShort
	}

	verb := "strength"
	if direction == models.DirectionBearish {
		verb = "weakness"
	}
	insight := fmt.Sprintf("%s shows %.1f%% intraday %s with %d corroborating indicator(s).",
		q.Symbol, q.ChangePercent, verb, sources)

	return models.AlphaSignal{
		Asset:       q.Symbol,
		Direction:   direction,
		Confidence:  confidence,
		TimeHorizon: horizon,
		Insight:     insight,
		Sources:     sources,
		Category:    "momentum",
	}, true
}
