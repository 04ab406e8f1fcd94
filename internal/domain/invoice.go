package domain

import "time"

// InvoiceStatusPending is the status a new invoice is raised with.
const InvoiceStatusPending = "Pending"

// Invoice is a billing document raised against an organization. Line items
// are free-form JSON the billing UI interprets.
type Invoice struct {
	ID             int64      `json:"id"`
	InvoiceNumber  string     `json:"invoiceNumber"`
	OrganizationID *int64     `json:"organizationId,omitempty"`
	BillingEmail   string     `json:"billingEmail,omitempty"`
	BillingAddress string     `json:"billingAddress,omitempty"`
	TaxID          string     `json:"taxId,omitempty"`
	PlanType       string     `json:"planType,omitempty"`
	Amount         float64    `json:"amount"`
	Currency       string     `json:"currency"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	PaymentMethod  string     `json:"paymentMethod,omitempty"`
	Items          JSONList   `json:"items"`
	Notes          string     `json:"notes,omitempty"`
	TermsAccepted  bool       `json:"termsAccepted"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`

	// Joined organization name, populated by list queries.
	OrganizationName string `json:"organizationName,omitempty"`
}
