package repository

import (
	"context"
	"errors"
	"time"

	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/sqlbuild"
)

// Sentinel errors services translate into API error codes.
var (
	ErrNotFound         = errors.New("record not found")
	ErrInviteNotPending = errors.New("invite is not pending")
	ErrInviteExpired    = errors.New("invite has expired")
	ErrDuplicateEmail   = errors.New("email already registered")
)

// Record is a dynamically-shaped row: the result of RETURNING * or
// SELECT * scanned by column name. Used wherever the table schema drifts
// across deployments and a fixed struct would be a lie.
type Record map[string]any

// SchemaRepository introspects live table shapes for the dynamic record
// builder. Implementations cache per table; Invalidate drops one entry.
type SchemaRepository interface {
	Columns(ctx context.Context, table string) (sqlbuild.ColumnSet, error)
	Invalidate(table string)
}

type OrganizationRepository interface {
	Insert(ctx context.Context, st *sqlbuild.Statement) (Record, error)
	Update(ctx context.Context, id int64, st *sqlbuild.Statement) (Record, error)
	List(ctx context.Context) ([]Record, error)
	GetByID(ctx context.Context, id int64) (Record, error)
	// GetForLogin returns the stable credential subset regardless of how
	// far the deployment's schema has drifted.
	GetForLogin(ctx context.Context, email string) (*domain.Organization, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Organization users
	InsertUser(ctx context.Context, st *sqlbuild.Statement) (Record, error)
	ListUsers(ctx context.Context, orgID int64) ([]Record, error)
	UserExistsByEmail(ctx context.Context, email string) (bool, error)
}

type InviteRepository interface {
	Create(ctx context.Context, inv *domain.OrganizationInvite) error
	GetByToken(ctx context.Context, token string) (*domain.OrganizationInvite, error)
	FindPendingByEmail(ctx context.Context, email string) (*domain.OrganizationInvite, error)
	DeletePendingByIdentity(ctx context.Context, email, mobile string) (int64, error)
	// Accept redeems a PENDING invite and creates the organization row in
	// one transaction under a row lock. The insert statement is built by
	// the callback from the organizations table's live column set so the
	// whole redemption sees one schema snapshot.
	Accept(ctx context.Context, token string, insert func(cols sqlbuild.ColumnSet) (*sqlbuild.Statement, error)) (Record, error)
	PurgeExpired(ctx context.Context, olderThan time.Time) (int64, error)
}

type EventRepository interface {
	Insert(ctx context.Context, st *sqlbuild.Statement) (Record, error)
	Update(ctx context.Context, id int64, st *sqlbuild.Statement) (Record, error)
	GetByID(ctx context.Context, id int64) (Record, error)
	GetByQRToken(ctx context.Context, token string) (Record, error)
	ListByOrganization(ctx context.Context, orgID int64) ([]Record, error)
	// ListUpcomingByOrganization filters to events starting today or later
	// that are neither cancelled nor completed.
	ListUpcomingByOrganization(ctx context.Context, orgID int64) ([]Record, error)
	// ListMissingQR returns events whose QR image was never generated,
	// scanning only the fields QR backfill needs.
	ListMissingQR(ctx context.Context, limit int) ([]domain.Event, error)
	SetQRAssets(ctx context.Context, id int64, qrImagePath, registrationLink string) error
	SetGroundLayout(ctx context.Context, id int64, layoutURL string) error
}

type ExhibitorRepository interface {
	Insert(ctx context.Context, st *sqlbuild.Statement) (Record, error)
	GetByID(ctx context.Context, id int64) (*domain.Exhibitor, error)
	// GetForLogin returns the most recent row for the email; an exhibitor
	// registered for several events has one row per event.
	GetForLogin(ctx context.Context, email string) (*domain.Exhibitor, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.Exhibitor, error)
	ListByOrganization(ctx context.Context, orgID int64) ([]domain.Exhibitor, error)
	ExistsForEvent(ctx context.Context, email string, eventID int64) (bool, error)
	UpdateAccessStatus(ctx context.Context, id int64, status domain.AccessStatus) error
}

type VisitorRepository interface {
	Insert(ctx context.Context, st *sqlbuild.Statement) (Record, error)
	GetByCode(ctx context.Context, code string) (*domain.Visitor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Visitor, error)
	// FindByPhone matches the full number or the last ten digits.
	FindByPhone(ctx context.Context, phone string) (*domain.Visitor, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.Visitor, error)
	CodeExists(ctx context.Context, code string) (bool, error)
}

type LeadRepository interface {
	Insert(ctx context.Context, st *sqlbuild.Statement) (Record, error)
	Update(ctx context.Context, id int64, st *sqlbuild.Statement) (Record, error)
	Delete(ctx context.Context, id int64) error
	ListByExhibitor(ctx context.Context, exhibitorID int64) ([]domain.Lead, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.Lead, error)
	InsertScan(ctx context.Context, s *domain.ScannedVisitor) error
	ListScansByExhibitor(ctx context.Context, exhibitorID int64) ([]domain.ScannedVisitor, error)
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	// List returns all invoices newest first, with the issuing
	// organization's name joined in.
	List(ctx context.Context) ([]domain.Invoice, error)
}

type PlanRepository interface {
	Create(ctx context.Context, p *domain.Plan) error
	List(ctx context.Context) ([]domain.Plan, error)
	GetByID(ctx context.Context, id int64) (*domain.Plan, error)
	CreateCoupon(ctx context.Context, c *domain.Coupon) error
	ListCoupons(ctx context.Context) ([]domain.Coupon, error)
	GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error)
	IncrementCouponUse(ctx context.Context, id int64) error
}
