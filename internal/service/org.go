package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"expoevents-backend/internal/apperror"
	"expoevents-backend/internal/config"
	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/logger"
	"expoevents-backend/internal/notification"
	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/sqlbuild"
)

// InviteValidity is how long an organization invite can be redeemed.
const InviteValidity = 48 * time.Hour

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// organizationFields maps the logical organization payload onto candidate
// columns. Older deployments carry organization_name instead of org_name
// and phone instead of primary_mobile; the first listed candidate the live
// table has wins.
var organizationFields = sqlbuild.FieldMap{
	{Key: "orgName", Columns: []string{"org_name", "organization_name"}},
	{Key: "primaryEmail", Columns: []string{"primary_email"}},
	{Key: "primaryMobile", Columns: []string{"primary_mobile", "phone"}},
	{Key: "contactEmail", Columns: []string{"contact_email"}},
	{Key: "contactPerson", Columns: []string{"contact_person"}},
	{Key: "address", Columns: []string{"address"}},
	{Key: "city", Columns: []string{"city"}},
	{Key: "state", Columns: []string{"state"}},
	{Key: "country", Columns: []string{"country"}},
	{Key: "pincode", Columns: []string{"pincode"}},
	{Key: "website", Columns: []string{"website"}},
	{Key: "gstNumber", Columns: []string{"gst_number"}},
	{Key: "industry", Columns: []string{"industry"}},
	{Key: "logoUrl", Columns: []string{"logo_url"}},
}

// organizationUserFields covers the organization_users table.
var organizationUserFields = sqlbuild.FieldMap{
	{Key: "organizationId", Columns: []string{"organization_id"}},
	{Key: "name", Columns: []string{"name", "full_name"}},
	{Key: "email", Columns: []string{"email"}},
	{Key: "mobile", Columns: []string{"mobile", "phone"}},
	{Key: "role", Columns: []string{"role"}},
}

type organizationService struct {
	orgRepo    repository.OrganizationRepository
	inviteRepo repository.InviteRepository
	schema     repository.SchemaRepository
	creds      CredentialIssuer
	notifier   *notification.Notifier
	cfg        *config.Config
}

func NewOrganizationService(
	orgRepo repository.OrganizationRepository,
	inviteRepo repository.InviteRepository,
	schema repository.SchemaRepository,
	notifier *notification.Notifier,
	cfg *config.Config,
) OrganizationService {
	return &organizationService{
		orgRepo:    orgRepo,
		inviteRepo: inviteRepo,
		schema:     schema,
		notifier:   notifier,
		cfg:        cfg,
	}
}

// isTestIdentity matches the conventions used by QA accounts: any email
// containing "test@" or a mobile starting with "0000". These identities
// skip the duplicate-pending check so repeated test runs do not wedge.
func isTestIdentity(email, mobile string) bool {
	return strings.Contains(strings.ToLower(email), "test@") || strings.HasPrefix(mobile, "0000")
}

func (s *organizationService) SendInvite(ctx context.Context, email, mobile string) (*InviteIssued, error) {
	email = strings.TrimSpace(email)
	mobile = strings.TrimSpace(mobile)
	if !emailPattern.MatchString(email) {
		return nil, apperror.New(apperror.CodeValidation, "A valid email address is required.")
	}

	bypass := isTestIdentity(email, mobile) || s.cfg.IsBypassIdentity(email, mobile)
	if bypass {
		deleted, err := s.inviteRepo.DeletePendingByIdentity(ctx, email, mobile)
		if err != nil {
			return nil, apperror.Wrap(apperror.CodeSystem, "Failed to clear previous invites.", err)
		}
		if deleted > 0 {
			logger.Info("Cleared stale pending invites for test identity", "email", email, "deleted", deleted)
		}
	} else {
		existing, err := s.orgRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, apperror.Wrap(apperror.CodeSystem, "Failed to check existing organizations.", err)
		}
		if existing {
			return nil, apperror.New(apperror.CodeConflict, "An organization with this email already exists.")
		}
		if _, err := s.inviteRepo.FindPendingByEmail(ctx, email); err == nil {
			return nil, apperror.New(apperror.CodeConflict, "An invite for this email is already pending.")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Wrap(apperror.CodeSystem, "Failed to check pending invites.", err)
		}
	}

	inv := &domain.OrganizationInvite{
		Email:     email,
		Mobile:    mobile,
		Token:     uuid.New().String(),
		Status:    domain.InviteStatusPending,
		ExpiresAt: time.Now().Add(InviteValidity),
	}
	if err := s.inviteRepo.Create(ctx, inv); err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to create invite.", err)
	}

	link := fmt.Sprintf("%s?token=%s", s.cfg.Links.InviteBase, inv.Token)
	emailRes, smsRes := s.notifier.OrganizationInvite(ctx, email, mobile, link)

	return &InviteIssued{Invite: inv, InviteLink: link, Email: emailRes, SMS: smsRes}, nil
}

func (s *organizationService) ValidateInvite(ctx context.Context, token string) (*domain.OrganizationInvite, error) {
	if token == "" {
		return nil, apperror.New(apperror.CodeValidation, "Invite token is required.")
	}
	inv, err := s.inviteRepo.GetByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.New(apperror.CodeNotFound, "Invalid invite link.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to look up invite.", err)
	}
	if inv.Status != domain.InviteStatusPending {
		return nil, apperror.New(apperror.CodeConflict, "This invite has already been used.")
	}
	if inv.Expired(time.Now()) {
		return nil, apperror.New(apperror.CodeConflict, "This invite has expired. Please request a new one.")
	}
	return inv, nil
}

func (s *organizationService) AcceptInvite(ctx context.Context, token string, payload map[string]any) (repository.Record, error) {
	inv, err := s.ValidateInvite(ctx, token)
	if err != nil {
		return nil, err
	}

	password, _ := payload["password"].(string)
	if len(password) < 6 {
		return nil, apperror.New(apperror.CodeValidation, "Password must be at least 6 characters.")
	}
	hash, err := s.creds.Hash(password)
	if err != nil {
		return nil, err
	}

	// The account email is the invited one, whatever the form submitted.
	payload["primaryEmail"] = inv.Email
	if _, ok := payload["primaryMobile"]; !ok && inv.Mobile != "" {
		payload["primaryMobile"] = inv.Mobile
	}

	rec, err := s.inviteRepo.Accept(ctx, token, func(cols sqlbuild.ColumnSet) (*sqlbuild.Statement, error) {
		st, err := sqlbuild.Build(organizationFields, payload, cols, sqlbuild.Options{
			StatusDefault: string(domain.OrgStatusActive),
			Timestamps:    true,
		})
		if err != nil {
			return nil, err
		}
		if cols.Has("password_hash") {
			st.Append("password_hash", hash)
		}
		return st, nil
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperror.New(apperror.CodeNotFound, "Invalid invite link.")
	case errors.Is(err, repository.ErrInviteNotPending):
		return nil, apperror.New(apperror.CodeConflict, "This invite has already been used.")
	case errors.Is(err, repository.ErrInviteExpired):
		return nil, apperror.New(apperror.CodeConflict, "This invite has expired. Please request a new one.")
	case errors.Is(err, repository.ErrDuplicateEmail):
		return nil, apperror.New(apperror.CodeConflict, "An organization with this email already exists.")
	case errors.Is(err, sqlbuild.ErrNoColumns):
		return nil, apperror.New(apperror.CodeConfig, "Organization table schema is missing expected columns.")
	case err != nil:
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to create organization.", err)
	}

	orgName, _ := payload["orgName"].(string)
	s.notifier.OrganizationWelcome(ctx, inv.Email, orgName, s.cfg.Links.LoginBase)

	return rec, nil
}

func (s *organizationService) Create(ctx context.Context, payload map[string]any) (repository.Record, error) {
	email, _ := payload["primaryEmail"].(string)
	if !emailPattern.MatchString(email) {
		return nil, apperror.New(apperror.CodeValidation, "A valid primary email is required.")
	}

	exists, err := s.orgRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to check existing organizations.", err)
	}
	if exists {
		return nil, apperror.New(apperror.CodeConflict, "An organization with this email already exists.")
	}

	password, _ := payload["password"].(string)
	generated := false
	if password == "" {
		orgName, _ := payload["orgName"].(string)
		password = s.creds.DefaultPassword(email, orgName)
		generated = true
	}
	hash, err := s.creds.Hash(password)
	if err != nil {
		return nil, err
	}

	cols, err := s.schema.Columns(ctx, "organizations")
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to introspect organizations table.", err)
	}
	st, err := sqlbuild.Build(organizationFields, payload, cols, sqlbuild.Options{
		StatusDefault: string(domain.OrgStatusActive),
		Timestamps:    true,
	})
	if errors.Is(err, sqlbuild.ErrNoColumns) {
		return nil, apperror.New(apperror.CodeConfig, "Organization table schema is missing expected columns.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to build organization record.", err)
	}
	if cols.Has("password_hash") {
		st.Append("password_hash", hash)
	}

	rec, err := s.orgRepo.Insert(ctx, st)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to create organization.", err)
	}
	if generated {
		rec["generatedPassword"] = password
		orgName, _ := payload["orgName"].(string)
		mobile, _ := payload["primaryMobile"].(string)
		er, sr := s.notifier.OrganizationCredentials(ctx, email, mobile, orgName, password, s.cfg.Links.LoginBase)
		rec["emailSent"] = er.Sent
		rec["smsSent"] = sr.Sent
	}
	return rec, nil
}

func (s *organizationService) List(ctx context.Context) ([]repository.Record, error) {
	recs, err := s.orgRepo.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to list organizations.", err)
	}
	return recs, nil
}

func (s *organizationService) Get(ctx context.Context, id int64) (repository.Record, error) {
	rec, err := s.orgRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.New(apperror.CodeNotFound, "Organization not found.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to fetch organization.", err)
	}
	return rec, nil
}

func (s *organizationService) Update(ctx context.Context, id int64, payload map[string]any) (repository.Record, error) {
	cols, err := s.schema.Columns(ctx, "organizations")
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to introspect organizations table.", err)
	}

	// Update binds only the keys actually present in the payload.
	updatable := sqlbuild.FieldMap{}
	for _, f := range organizationFields {
		if _, ok := payload[f.Key]; ok {
			updatable = append(updatable, f)
		}
	}
	st, err := sqlbuild.Build(updatable, payload, cols, sqlbuild.Options{})
	if errors.Is(err, sqlbuild.ErrNoColumns) {
		return nil, apperror.New(apperror.CodeValidation, "No updatable fields in request.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to build update.", err)
	}
	if cols.Has("updated_at") {
		st.AppendLiteral("updated_at", "NOW()")
	}

	rec, err := s.orgRepo.Update(ctx, id, st)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.New(apperror.CodeNotFound, "Organization not found.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to update organization.", err)
	}
	return rec, nil
}

func (s *organizationService) Login(ctx context.Context, email, password string) (*domain.Organization, error) {
	org, err := s.orgRepo.GetForLogin(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.New(apperror.CodeUnauthorized, "Invalid email or password.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to look up organization.", err)
	}
	if !s.creds.Verify(org.PasswordHash, password) {
		return nil, apperror.New(apperror.CodeUnauthorized, "Invalid email or password.")
	}
	if org.Status != domain.OrgStatusActive {
		return nil, apperror.New(apperror.CodeForbidden, "This organization account is inactive.")
	}
	org.PasswordHash = ""
	return org, nil
}

func (s *organizationService) CreateUser(ctx context.Context, orgID int64, payload map[string]any) (repository.Record, error) {
	email, _ := payload["email"].(string)
	if !emailPattern.MatchString(email) {
		return nil, apperror.New(apperror.CodeValidation, "A valid email address is required.")
	}

	exists, err := s.orgRepo.UserExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to check for an existing user.", err)
	}
	if exists {
		return nil, apperror.New(apperror.CodeConflict, "A user with this email already exists.")
	}

	password, _ := payload["password"].(string)
	generated := false
	if password == "" {
		name, _ := payload["name"].(string)
		password = s.creds.DefaultPassword(email, name)
		generated = true
	}
	hash, err := s.creds.Hash(password)
	if err != nil {
		return nil, err
	}

	cols, err := s.schema.Columns(ctx, "organization_users")
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to introspect organization_users table.", err)
	}
	payload["organizationId"] = orgID
	st, err := sqlbuild.Build(organizationUserFields, payload, cols, sqlbuild.Options{
		StatusDefault: "Active",
		Timestamps:    true,
	})
	if errors.Is(err, sqlbuild.ErrNoColumns) {
		return nil, apperror.New(apperror.CodeConfig, "Organization users table schema is missing expected columns.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to build user record.", err)
	}
	if cols.Has("password_hash") {
		st.Append("password_hash", hash)
	}

	rec, err := s.orgRepo.InsertUser(ctx, st)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to create user.", err)
	}
	if generated {
		rec["generatedPassword"] = password
	}
	return rec, nil
}

func (s *organizationService) ListUsers(ctx context.Context, orgID int64) ([]repository.Record, error) {
	recs, err := s.orgRepo.ListUsers(ctx, orgID)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to list users.", err)
	}
	return recs, nil
}
