package domain

import "time"

type AccessStatus string

const (
	AccessStatusActive    AccessStatus = "Active"
	AccessStatusSuspended AccessStatus = "Suspended"
	AccessStatusInactive  AccessStatus = "Inactive"
)

// Exhibitor belongs to an Organization and optionally to one Event. An
// exhibitor registering for N events has N rows sharing contact data.
type Exhibitor struct {
	ID             int64        `json:"id"`
	OrganizationID int64        `json:"organizationId"`
	EventID        *int64       `json:"eventId,omitempty"`
	CompanyName    string       `json:"companyName"`
	GSTNumber      string       `json:"gstNumber,omitempty"`
	Address        string       `json:"address,omitempty"`
	Industry       string       `json:"industry,omitempty"`
	LogoURL        string       `json:"logoUrl,omitempty"`
	ContactPerson  string       `json:"contactPerson,omitempty"`
	Email          string       `json:"email,omitempty"`
	Mobile         string       `json:"mobile,omitempty"`
	PasswordHash   string       `json:"-"`
	StallNumber    string       `json:"stallNumber,omitempty"`
	StallCategory  string       `json:"stallCategory,omitempty"`
	AccessStatus   AccessStatus `json:"accessStatus"`
	LeadCapture    JSONMap      `json:"leadCapture"`
	Communication  JSONMap      `json:"communication"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`

	// Joined fields, populated by list queries
	EventName        string `json:"eventName,omitempty"`
	OrganizationName string `json:"organizationName,omitempty"`
}
