package domain

import "time"

// Visitor belongs to an Event. The unique code is the human-readable
// check-in credential printed on badges ("VIS-" + 8 alphanumerics with
// ambiguous characters excluded).
type Visitor struct {
	ID              int64     `json:"id"`
	EventID         *int64    `json:"eventId,omitempty"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email,omitempty"`
	Mobile          string    `json:"mobile,omitempty"`
	Gender          string    `json:"gender,omitempty"`
	AgeGroup        string    `json:"ageGroup,omitempty"`
	Organization    string    `json:"organization,omitempty"`
	Designation     string    `json:"designation,omitempty"`
	VisitorCategory string    `json:"visitorCategory,omitempty"`
	ValidDates      string    `json:"validDates,omitempty"`
	PasswordHash    string    `json:"-"`
	UniqueCode      string    `json:"uniqueCode"`
	Communication   JSONMap   `json:"communication"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	// Joined fields, populated by lookup queries
	EventName           string `json:"eventName,omitempty"`
	EventOrganizationID *int64 `json:"eventOrganizationId,omitempty"`
}

// FullName joins first and last name for display.
func (v *Visitor) FullName() string {
	if v.FirstName == "" {
		return v.LastName
	}
	if v.LastName == "" {
		return v.FirstName
	}
	return v.FirstName + " " + v.LastName
}
