package usecase

import (
	"context"
	"fmt"
	"time"

	"AlphaPulse/internal/domain/models"
	drepo "AlphaPulse/internal/domain/repository"
)

// InsightsAggregator composes the score with recent activity counts,
// breakdowns and recommendations.
type InsightsAggregator struct {
	composer *ScoreComposer
	biases   drepo.BiasStore
	signals  drepo.SignalStore
	params   ScoreParams
	now      func() time.Time
}

// NewInsightsAggregator creates a new InsightsAggregator instance.
func NewInsightsAggregator(
	composer *ScoreComposer,
	biases drepo.BiasStore,
	signals drepo.SignalStore,
	params ScoreParams,
) *InsightsAggregator {
	if params.Period == "" {
		params = DefaultScoreParams()
	}
	return &InsightsAggregator{
		composer: composer,
		biases:   biases,
		signals:  signals,
		params:   params,
		now:      time.Now,
	}
}

// Build assembles the full behavioral picture for the user.
func (a *InsightsAggregator) Build(ctx context.Context, userID string) (models.AlphaInsights, error) {
	score, err := a.composer.Score(ctx, userID)
	if err != nil {
		return models.AlphaInsights{}, fmt.Errorf("build insights: %w", err)
	}
	biases, err := a.biases.RecentBiases(ctx, userID, a.params.RecentBiases)
	if err != nil {
		return models.AlphaInsights{}, fmt.Errorf("build insights: %w", err)
	}
	signals, err := a.signals.RecentSignals(ctx, userID, a.params.RecentSignals)
	if err != nil {
		return models.AlphaInsights{}, fmt.Errorf("build insights: %w", err)
	}

	cutoff := a.now().Add(-7 * 24 * time.Hour)
	insights := models.AlphaInsights{
		Score:           score,
		BiasBreakdown:   make(map[string]int),
		SignalBreakdown: make(map[string]int),
	}
	for _, b := range biases {
		insights.BiasBreakdown[b.BiasType]++
		if !b.DetectedAt.Before(cutoff) {
			insights.BiasesDetected++
		}
	}
	for _, s := range signals {
		insights.SignalBreakdown[s.Direction]++
		if !s.Timestamp.Before(cutoff) {
			insights.SignalsGenerated++
		}
	}
	insights.Recommendations = recommendations(score, biases, signals)
	return insights, nil
}

// recommendations applies fixed threshold rules; at least one string is
// always returned.
func recommendations(score models.AlphaScore, biases []models.BiasAnalysis, signals []models.AlphaSignal) []string {
	var recs []string

	if score.Score < 50 {
		recs = append(recs, "Your alpha score is below average. Focus on addressing cognitive biases and following data-driven signals.")
	} else if score.Score > 80 {
		recs = append(recs, "Excellent alpha score! Continue your current strategy and consider sharing your insights with the community.")
	}

	highSeverity := 0
	for _, b := range biases {
		if b.Severity == models.SeverityHigh {
			highSeverity++
		}
	}
	if highSeverity > 0 {
		recs = append(recs, fmt.Sprintf("You have %d high-severity biases requiring immediate attention.", highSeverity))
	}

	highConfidence := 0
	for _, s := range signals {
		if s.Confidence > 0.8 {
			highConfidence++
		}
	}
	if highConfidence > 5 {
		recs = append(recs, "You have multiple high-confidence signals available. Consider reviewing them for potential action.")
	}

	if score.Improvement > 5 {
		recs = append(recs, "Great improvement! Your bias correction efforts are paying off.")
	} else if score.Improvement < 0 {
		recs = append(recs, "Your alpha score has declined. Review recent decisions and consider adjusting your strategy.")
	}

	if len(recs) == 0 {
		recs = append(recs, "Continue monitoring your portfolio and stay alert for potential cognitive biases.")
	}
	return recs
}
