package validation

import "strings"

// ShippingUpsert is the request body for creating or replacing a state's rate.
type ShippingUpsert struct {
	State         string  `json:"state"`
	Rate          float64 `json:"rate"`
	EstimatedDays string  `json:"estimated_days"`
}

// Validate requires a state name and a non-negative rate.
func (r *ShippingUpsert) Validate() error {
	var verr Error
	if strings.TrimSpace(r.State) == "" {
		verr.add("state", "State name is required")
	}
	if r.Rate < 0 {
		verr.add("rate", "Rate must be a non-negative number")
	}
	return verr.orNil()
}

// ShippingUpdate is the request body for a partial rate update by ID.
type ShippingUpdate struct {
	Rate          *float64 `json:"rate"`
	EstimatedDays *string  `json:"estimated_days"`
}

// Validate rejects a negative rate when one is supplied.
func (r *ShippingUpdate) Validate() error {
	var verr Error
	if r.Rate != nil && *r.Rate < 0 {
		verr.add("rate", "Rate must be a non-negative number")
	}
	return verr.orNil()
}
