package signals

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"AlphaPulse/internal/domain/models"
)

func TestMomentumSkipsFlatDays(t *testing.T) {
	m := NewMomentum()
	q := models.Quote{Symbol: "AAPL", Price: 150, ChangePercent: 0.1}
	if _, ok := m.Generate(q, models.RiskSettings{}); ok {
		t.Fatal("a 0.1% move carries no edge")
	}
}

func TestMomentumSkipsInvalidPrice(t *testing.T) {
	m := NewMomentum()
	q := models.Quote{Symbol: "AAPL", Price: 0, ChangePercent: 3}
	if _, ok := m.Generate(q, models.RiskSettings{}); ok {
		t.Fatal("zero price must not produce a signal")
	}
}

func TestMomentumBullishWithCorroboration(t *testing.T) {
	m := NewMomentum()
	// Near the day high and above the open: three agreeing sources.
	q := models.Quote{Symbol: "AAPL", Price: 105, ChangePercent: 2.5, High: 106, Low: 100, Open: 101}
	sig, ok := m.Generate(q, models.RiskSettings{RiskTolerance: "moderate"})
	if !ok {
		t.Fatal("expected a signal")
	}
	if sig.Direction != models.DirectionBullish {
		t.Fatalf("direction = %q", sig.Direction)
	}
	if sig.Sources != 3 {
		t.Fatalf("sources = %d, want 3", sig.Sources)
	}
	want := 2.5 / 5 * (0.6 + 0.2*3)
	if math.Abs(sig.Confidence-want) > 1e-9 {
		t.Fatalf("confidence = %v, want %v", sig.Confidence, want)
	}
	if sig.TimeHorizon != models.HorizonMedium {
		t.Fatalf("horizon = %q, want medium", sig.TimeHorizon)
	}
	if sig.Category != "momentum" {
		t.Fatalf("category = %q", sig.Category)
	}
}

func TestMomentumBearish(t *testing.T) {
	m := NewMomentum()
	// Near the day low and below the open.
	q := models.Quote{Symbol: "INTC", Price: 30.2, ChangePercent: -3, High: 32, Low: 30, Open: 31.5}
	sig, ok := m.Generate(q, models.RiskSettings{})
	if !ok {
		t.Fatal("expected a signal")
	}
	if sig.Direction != models.DirectionBearish {
		t.Fatalf("direction = %q", sig.Direction)
	}
	if sig.Sources != 3 {
		t.Fatalf("sources = %d, want 3", sig.Sources)
	}
}

func TestMomentumRiskToleranceScaling(t *testing.T) {
	m := NewMomentum()
	q := models.Quote{Symbol: "AAPL", Price: 105, ChangePercent: 2.5, High: 106, Low: 100, Open: 101}

	conservative, _ := m.Generate(q, models.RiskSettings{RiskTolerance: "conservative"})
	moderate, _ := m.Generate(q, models.RiskSettings{RiskTolerance: "moderate"})
	aggressive, _ := m.Generate(q, models.RiskSettings{RiskTolerance: "aggressive"})

	if !(conservative.Confidence < moderate.Confidence && moderate.Confidence < aggressive.Confidence) {
		t.Fatalf("confidence ordering broken: %v %v %v",
			conservative.Confidence, moderate.Confidence, aggressive.Confidence)
	}
	if conservative.TimeHorizon != models.HorizonLong || aggressive.TimeHorizon != models.HorizonShort {
		t.Fatalf("horizons: conservative=%q aggressive=%q",
			conservative.TimeHorizon, aggressive.TimeHorizon)
	}
}

func TestMomentumConfidenceClamped(t *testing.T) {
	m := NewMomentum()
	q := models.Quote{Symbol: "GME", Price: 60, ChangePercent: 40, High: 61, Low: 40, Open: 41}
	sig, ok := m.Generate(q, models.RiskSettings{RiskTolerance: "aggressive"})
	if !ok {
		t.Fatal("expected a signal")
	}
	if sig.Confidence != 1 {
		t.Fatalf("confidence = %v, want clamped 1", sig.Confidence)
	}
}

// Property: generated signals always have a confidence in [0, 1] and a
// direction matching the sign of the day change.
func TestProperty_MomentumSignalBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300

	properties := gopter.NewProperties(parameters)
	m := NewMomentum()
	tolerances := []string{"conservative", "moderate", "aggressive"}

	properties.Property("confidence bounded, direction consistent", prop.ForAll(
		func(price, changePct, spread, openOff float64, tol int) bool {
			q := models.Quote{
				Symbol:        "X",
				Price:         price,
				ChangePercent: changePct,
				High:          price + spread,
				Low:           price - spread,
				Open:          price + openOff,
			}
			sig, ok := m.Generate(q, models.RiskSettings{RiskTolerance: tolerances[tol]})
			if !ok {
				return true
			}
			if sig.Confidence < 0 || sig.Confidence > 1 {
				return false
			}
			if changePct > 0 && sig.Direction != models.DirectionBullish {
				return false
			}
			if changePct < 0 && sig.Direction != models.DirectionBearish {
				return false
			}
			return sig.Sources >= 1 && sig.Sources <= 3
		},
		gen.Float64Range(0.01, 1000),
		gen.Float64Range(-50, 50),
		gen.Float64Range(0, 100),
		gen.Float64Range(-10, 10),
		gen.IntRange(0, 2),
	))

	properties.TestingRun(t)
}
