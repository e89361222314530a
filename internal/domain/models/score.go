package models

import "time"

// AlphaScore is the composite behavioral performance score for one user.
// Cached and replaced atomically as a whole.
type AlphaScore struct {
	UserID              string    `json:"userId"`
	Score               float64   `json:"score"`
	Improvement         float64   `json:"improvement"`
	Period              string    `json:"period"`
	BiasesCorrected     int       `json:"biasesCorrected"`
	OpportunitiesMissed int       `json:"opportunitiesMissed"`
	CalculatedAt        time.Time `json:"calculatedAt"`
}
