package domain

import "time"

type OrgStatus string

const (
	OrgStatusActive   OrgStatus = "Active"
	OrgStatusInactive OrgStatus = "Inactive"
)

// Organization is the tenant root. Rows live in a schema-drifting table, so
// creation goes through the dynamic record builder; this struct covers the
// stable subset used by typed flows (invite acceptance, login).
type Organization struct {
	ID            int64     `json:"id"`
	OrgName       string    `json:"orgName"`
	PrimaryEmail  string    `json:"primaryEmail"`
	PrimaryMobile string    `json:"primaryMobile"`
	ContactEmail  string    `json:"contactEmail,omitempty"`
	PasswordHash  string    `json:"-"`
	Status        OrgStatus `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "PENDING"
	InviteStatusAccepted InviteStatus = "ACCEPTED"
)

// OrganizationInvite grants the right to create exactly one Organization.
// PENDING → ACCEPTED happens once, under a row lock.
type OrganizationInvite struct {
	ID        int64        `json:"id"`
	Email     string       `json:"email"`
	Mobile    string       `json:"mobile"`
	Token     string       `json:"inviteToken"`
	Status    InviteStatus `json:"status"`
	ExpiresAt time.Time    `json:"expiresAt"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Expired reports whether the invite can no longer be redeemed.
func (i *OrganizationInvite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
