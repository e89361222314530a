package models

import "time"

// Holding is a single position enriched with live valuation data.
type Holding struct {
	Symbol          string
	Shares          float64
	AverageCost     float64
	CurrentPrice    float64
	Value           float64
	GainLoss        float64
	GainLossPercent float64
	AddedAt         time.Time
}

// PortfolioSnapshot is a point-in-time valuation of every holding.
// Derived per request, never persisted.
type PortfolioSnapshot struct {
	UserID        string
	Holdings      []Holding
	TotalValue    float64
	TotalGainLoss float64
}

// ReturnPercent is the overall gain/loss relative to current market value.
func (s PortfolioSnapshot) ReturnPercent() float64 {
	if s.TotalValue <= 0 {
		return 0
	}
	return s.TotalGainLoss / s.TotalValue * 100
}

// RiskSettings are the user's stated preferences from the settings store.
type RiskSettings struct {
	UserID        string
	RiskTolerance string // "conservative", "moderate", "aggressive"
}
