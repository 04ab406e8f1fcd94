package domain

import "time"

// Plan is a pricing catalog entry created ad hoc from the admin UI.
type Plan struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Description  string    `json:"description"`
	ValidityDays int32     `json:"validityDays"`
	Status       string    `json:"status"`
	Limits       JSONMap   `json:"limits"`
	Pricing      JSONMap   `json:"pricing"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Coupon references a Plan. Single use is tracked via UsedCount, not a
// hard constraint.
type Coupon struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	PlanID    int64     `json:"planId"`
	Status    string    `json:"status"`
	UsedCount int32     `json:"usedCount"`
	CreatedAt time.Time `json:"createdAt"`

	// Joined plan fields, populated by verification queries
	PlanName        string  `json:"planName,omitempty"`
	PlanType        string  `json:"planType,omitempty"`
	PlanLimits      JSONMap `json:"limits,omitempty"`
	PlanPricing     JSONMap `json:"pricing,omitempty"`
	PlanDescription string  `json:"description,omitempty"`
}
