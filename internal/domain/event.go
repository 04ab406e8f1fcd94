package domain

import "time"

type EventStatus string

const (
	EventStatusDraft     EventStatus = "Draft"
	EventStatusPublished EventStatus = "Published"
	EventStatusCancelled EventStatus = "Cancelled"
	EventStatusCompleted EventStatus = "Completed"
)

// Event belongs to exactly one Organization. The registration token is
// globally unique and immutable after creation; the QR image path is
// back-filled asynchronously right after row insertion.
type Event struct {
	ID             int64       `json:"id"`
	OrganizationID int64       `json:"organizationId"`
	EventName      string      `json:"eventName"`
	Description    string      `json:"description,omitempty"`
	EventType      string      `json:"eventType,omitempty"`
	EventMode      string      `json:"eventMode,omitempty"`
	Industry       string      `json:"industry,omitempty"`
	OrganizerName  string      `json:"organizerName,omitempty"`
	ContactPerson  string      `json:"contactPerson,omitempty"`
	OrganizerEmail string      `json:"organizerEmail,omitempty"`
	OrganizerPhone string      `json:"organizerMobile,omitempty"`
	Venue          string      `json:"venue,omitempty"`
	City           string      `json:"city,omitempty"`
	State          string      `json:"state,omitempty"`
	Country        string      `json:"country,omitempty"`
	StartDate      *time.Time  `json:"startDate,omitempty"`
	EndDate        *time.Time  `json:"endDate,omitempty"`
	Registration   JSONMap     `json:"registration"`
	LeadCapture    JSONMap     `json:"leadCapture"`
	Communication  JSONMap     `json:"communication"`
	QRToken        string      `json:"qrToken"`
	RegistrationLink string    `json:"registrationLink"`
	QRImagePath    string      `json:"qrImagePath,omitempty"`
	Status         EventStatus `json:"status"`
	EnableStalls   bool        `json:"enableStalls"`
	StallConfig    JSONMap     `json:"stallConfig"`
	StallTypes     JSONList    `json:"stallTypes"`
	GroundLayoutURL string     `json:"groundLayoutUrl,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}
