package usecase

import (
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"AlphaPulse/internal/domain/models"
)

// Property: every score component stays inside [0, 100] no matter how
// extreme the inputs are, and the composed score never exceeds 100.
func TestProperty_ScoreComponentsBounded(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	c := newTestComposer(t, &stubPortfolio{}, &stubQuotes{}, &stubBiasStore{}, &stubSignalStore{}, newMemScoreCache())
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	properties.Property("portfolio component bounded", prop.ForAll(
		func(returnPct float64) bool {
			snap := models.PortfolioSnapshot{
				Holdings:      []models.Holding{{Symbol: "X", Value: 100}},
				TotalValue:    100,
				TotalGainLoss: returnPct,
			}
			got := c.portfolioScore(snap)
			return got >= 0 && got <= 100
		},
		gen.Float64Range(-1000, 1000),
	))

	severities := []string{models.SeverityLow, models.SeverityMedium, models.SeverityHigh}
	biasGen := gen.SliceOf(gen.Struct(reflect.TypeOf(models.BiasAnalysis{}), map[string]gopter.Gen{
		"Severity":   gen.OneConstOf(severities[0], severities[1], severities[2]),
		"DetectedAt": gen.Int64Range(0, 365).Map(func(days int64) time.Time { return now.Add(-time.Duration(days) * 24 * time.Hour) }),
	}))
	properties.Property("bias component bounded", prop.ForAll(
		func(biases []models.BiasAnalysis) bool {
			got := c.biasScore(biases, now)
			return got >= 0 && got <= 100
		},
		biasGen,
	))

	signalGen := gen.SliceOf(gen.Struct(reflect.TypeOf(models.AlphaSignal{}), map[string]gopter.Gen{
		"Confidence": gen.Float64Range(0, 1),
		"Timestamp":  gen.Int64Range(0, 30).Map(func(days int64) time.Time { return now.Add(-time.Duration(days) * 24 * time.Hour) }),
	}))
	properties.Property("signal component bounded", prop.ForAll(
		func(signals []models.AlphaSignal) bool {
			got := c.signalScore(signals, now)
			return got >= 0 && got <= 100
		},
		signalGen,
	))

	properties.TestingRun(t)
}

// Property: a better portfolio return never lowers the portfolio component.
func TestProperty_PortfolioComponentMonotonic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	c := newTestComposer(t, &stubPortfolio{}, &stubQuotes{}, &stubBiasStore{}, &stubSignalStore{}, newMemScoreCache())

	snapFor := func(returnPct float64) models.PortfolioSnapshot {
		return models.PortfolioSnapshot{
			Holdings:      []models.Holding{{Symbol: "X", Value: 100}},
			TotalValue:    100,
			TotalGainLoss: returnPct,
		}
	}

	properties.Property("monotonic in return", prop.ForAll(
		func(a, b float64) bool {
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			return c.portfolioScore(snapFor(lo)) <= c.portfolioScore(snapFor(hi))
		},
		gen.Float64Range(-200, 200),
		gen.Float64Range(-200, 200),
	))

	properties.TestingRun(t)
}
