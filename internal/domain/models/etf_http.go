package models

// Requests for the dashboard HTTP endpoints. Defined in domain for consistency and reuse.

// Limit is a pointer so an explicit limit=0 (all rows) is
// distinguishable from an absent parameter, which gets the configured
// default.
type FetchRequest struct {
	Limit *int `query:"limit" json:"limit" validate:"omitempty,gte=0,lte=500"`
}

type SortRequest struct {
	Column    string `query:"column" json:"column" validate:"required,oneof=code name benchmark management fee price change_1d_pct change_1w_pct change_2w_pct change_1y_pct dividend_yield dividend_date"`
	Direction string `query:"direction" json:"direction" validate:"omitempty,oneof=asc desc"`
}

// FetchResponse mirrors the shape the dashboard frontend consumes.
type FetchResponse struct {
	Rows       []EnrichedRow `json:"data"`
	TargetDate string        `json:"target_date"`
}

// SortedResponse is a FetchResponse plus the sort state that produced it.
type SortedResponse struct {
	Rows       []EnrichedRow `json:"data"`
	TargetDate string        `json:"target_date"`
	Column     string        `json:"column"`
	Direction  string        `json:"direction"`
}
