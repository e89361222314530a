package models

import "time"

// Quote is a point-in-time price snapshot for one symbol.
// Fields mirror the provider's current/change/percent/high/low/open values.
type Quote struct {
	Symbol        string
	Price         float64
	Change        float64
	ChangePercent float64
	High          float64
	Low           float64
	Open          float64
	FetchedAt     time.Time
}
