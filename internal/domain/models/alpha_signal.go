package models

import "time"

// Signal directions.
const (
	DirectionBullish = "bullish"
	DirectionBearish = "bearish"
	DirectionNeutral = "neutral"
)

// Time horizons.
const (
	HorizonShort  = "short"
	HorizonMedium = "medium"
	HorizonLong   = "long"
)

// AlphaSignal is one generated trading signal. Immutable once persisted.
type AlphaSignal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Asset       string    `json:"asset"`
	Direction   string    `json:"direction"`
	Confidence  float64   `json:"confidence"`
	TimeHorizon string    `json:"timeHorizon"`
	Insight     string    `json:"insight"`
	Sources     int       `json:"sources"`
	Timestamp   time.Time `json:"timestamp"`
	Category    string    `json:"category"`
}
