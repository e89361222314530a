package models

import "time"

// Bias types.
const (
	BiasLossAversion   = "loss_aversion"
	BiasConfirmation   = "confirmation_bias"
	BiasOverconfidence = "overconfidence"
	BiasAnchoring      = "anchoring"
	BiasHerding        = "herding"
)

// Severity levels.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// BiasAnalysis is one detected behavioral bias. Immutable once persisted.
type BiasAnalysis struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	BiasType       string    `json:"biasType"`
	Severity       string    `json:"severity"`
	Description    string    `json:"description"`
	Recommendation string    `json:"recommendation"`
	DetectedAt     time.Time `json:"detectedAt"`
}

// SeverityPenalty returns the score penalty applied per finding.
func SeverityPenalty(severity string) float64 {
	switch severity {
	case SeverityHigh:
		return 15
	case SeverityMedium:
		return 10
	default:
		return 5
	}
}
