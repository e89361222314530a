package models

// AlphaInsights is the aggregated behavioral picture for one user over the
// last seven days.
type AlphaInsights struct {
	Score            AlphaScore     `json:"score"`
	BiasesDetected   int            `json:"biasesDetected"`
	SignalsGenerated int            `json:"signalsGenerated"`
	BiasBreakdown    map[string]int `json:"biasBreakdown"`
	SignalBreakdown  map[string]int `json:"signalBreakdown"`
	Recommendations  []string       `json:"recommendations"`
}
