package service

import (
	"context"

	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/notification"
	"expoevents-backend/internal/repository"
)

// InviteIssued is the outcome of sending an organization invite: the stored
// invite plus delivery flags for both channels.
type InviteIssued struct {
	Invite     *domain.OrganizationInvite `json:"invite"`
	InviteLink string                     `json:"inviteLink"`
	Email      notification.EmailResult   `json:"email"`
	SMS        notification.SMSResult     `json:"sms"`
}

type OrganizationService interface {
	SendInvite(ctx context.Context, email, mobile string) (*InviteIssued, error)
	ValidateInvite(ctx context.Context, token string) (*domain.OrganizationInvite, error)
	AcceptInvite(ctx context.Context, token string, payload map[string]any) (repository.Record, error)
	Create(ctx context.Context, payload map[string]any) (repository.Record, error)
	List(ctx context.Context) ([]repository.Record, error)
	Get(ctx context.Context, id int64) (repository.Record, error)
	Update(ctx context.Context, id int64, payload map[string]any) (repository.Record, error)
	Login(ctx context.Context, email, password string) (*domain.Organization, error)
	CreateUser(ctx context.Context, orgID int64, payload map[string]any) (repository.Record, error)
	ListUsers(ctx context.Context, orgID int64) ([]repository.Record, error)
}

type EventService interface {
	Create(ctx context.Context, payload map[string]any) (repository.Record, error)
	Get(ctx context.Context, id int64) (repository.Record, error)
	// GetByToken resolves the public registration page for a QR token.
	GetByToken(ctx context.Context, token string) (repository.Record, error)
	ListByOrganization(ctx context.Context, orgID int64) ([]repository.Record, error)
	ListUpcomingByOrganization(ctx context.Context, orgID int64) ([]repository.Record, error)
	Update(ctx context.Context, id int64, payload map[string]any) (repository.Record, error)
	SetGroundLayout(ctx context.Context, id int64, layoutURL string) error
	// BackfillMissingQR generates QR images for events created before the
	// generator was available or whose generation failed.
	BackfillMissingQR(ctx context.Context) (int, error)
}

// Registered is the outcome of a self-registration: the created record plus
// credential and delivery details that exist only in this response.
type Registered struct {
	Record     repository.Record        `json:"record"`
	UniqueCode string                   `json:"uniqueCode,omitempty"`
	Password   string                   `json:"generatedPassword,omitempty"`
	Email      notification.EmailResult `json:"email"`
	SMS        notification.SMSResult   `json:"sms"`
}

type ExhibitorService interface {
	Register(ctx context.Context, payload map[string]any) (*Registered, error)
	Login(ctx context.Context, email, password string) (*domain.Exhibitor, error)
	Get(ctx context.Context, id int64) (*domain.Exhibitor, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.Exhibitor, error)
	ListByOrganization(ctx context.Context, orgID int64) ([]domain.Exhibitor, error)
	UpdateAccessStatus(ctx context.Context, id int64, status domain.AccessStatus) error
}

type VisitorService interface {
	Register(ctx context.Context, payload map[string]any) (*Registered, error)
	// Login authenticates by email or phone identifier. The credential is
	// the account password, or the visitor's own mobile number for
	// identities registered without one.
	Login(ctx context.Context, identifier, password string) (*domain.Visitor, error)
	// GetByCode resolves a badge code. A non-zero eventID asserts the badge
	// belongs to that event.
	GetByCode(ctx context.Context, code string, eventID int64) (*domain.Visitor, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.Visitor, error)
}

type LeadService interface {
	Capture(ctx context.Context, payload map[string]any) (repository.Record, error)
	Update(ctx context.Context, id int64, payload map[string]any) (repository.Record, error)
	Delete(ctx context.Context, id int64) error
	ListByExhibitor(ctx context.Context, exhibitorID int64) ([]domain.Lead, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.Lead, error)
	RecordScan(ctx context.Context, scan *domain.ScannedVisitor) error
	ListScans(ctx context.Context, exhibitorID int64) ([]domain.ScannedVisitor, error)
}

// CouponIssued pairs a created plan with its generated coupon, when one
// was issued.
type CouponIssued struct {
	Plan   *domain.Plan   `json:"plan"`
	Coupon *domain.Coupon `json:"coupon,omitempty"`
}

type InvoiceService interface {
	// Create assigns the invoice number and raises the invoice as Pending.
	Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	List(ctx context.Context) ([]domain.Invoice, error)
}

type PlanService interface {
	Create(ctx context.Context, plan *domain.Plan, couponPrefix string) (*CouponIssued, error)
	List(ctx context.Context) ([]domain.Plan, error)
	Get(ctx context.Context, id int64) (*domain.Plan, error)
	ListCoupons(ctx context.Context) ([]domain.Coupon, error)
	VerifyCoupon(ctx context.Context, code string) (*domain.Coupon, error)
	RedeemCoupon(ctx context.Context, code string) (*domain.Coupon, error)
}
