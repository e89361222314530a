package models

// Requests for alpha HTTP endpoints. Defined in domain for consistency and reuse.

type ListBiasesRequest struct {
	Limit int `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=50"`
}

type ListSignalsRequest struct {
	Limit int `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=100"`
}
