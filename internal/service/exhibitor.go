package service

import (
	"context"
	"errors"
	"strings"

	"expoevents-backend/internal/apperror"
	"expoevents-backend/internal/config"
	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/notification"
	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/sqlbuild"
)

var exhibitorFields = sqlbuild.FieldMap{
	{Key: "organizationId", Columns: []string{"organization_id"}},
	{Key: "eventId", Columns: []string{"event_id"}},
	{Key: "companyName", Columns: []string{"company_name", "name"}},
	{Key: "gstNumber", Columns: []string{"gst_number"}},
	{Key: "address", Columns: []string{"address"}},
	{Key: "industry", Columns: []string{"industry"}},
	{Key: "logoUrl", Columns: []string{"logo_url"}},
	{Key: "contactPerson", Columns: []string{"contact_person"}},
	{Key: "email", Columns: []string{"email", "contact_email"}},
	{Key: "mobile", Columns: []string{"mobile", "phone"}},
	{Key: "stallNumber", Columns: []string{"stall_number"}},
	{Key: "stallCategory", Columns: []string{"stall_category"}},
	{Key: "leadCapture", Columns: []string{"lead_capture"}, Kind: sqlbuild.KindJSON},
	{Key: "communication", Columns: []string{"communication"}, Kind: sqlbuild.KindJSON},
}

type exhibitorService struct {
	exhibitorRepo repository.ExhibitorRepository
	eventRepo     repository.EventRepository
	schema        repository.SchemaRepository
	creds         CredentialIssuer
	notifier      *notification.Notifier
	cfg           *config.Config
}

func NewExhibitorService(
	exhibitorRepo repository.ExhibitorRepository,
	eventRepo repository.EventRepository,
	schema repository.SchemaRepository,
	notifier *notification.Notifier,
	cfg *config.Config,
) ExhibitorService {
	return &exhibitorService{
		exhibitorRepo: exhibitorRepo,
		eventRepo:     eventRepo,
		schema:        schema,
		notifier:      notifier,
		cfg:           cfg,
	}
}

// Register creates an exhibitor account for one event. Registering the same
// email for another event creates a new row; for the same event it is a
// conflict. The generated password is delivered by email and returned in
// the response exactly once.
func (s *exhibitorService) Register(ctx context.Context, payload map[string]any) (*Registered, error) {
	company, _ := payload["companyName"].(string)
	if strings.TrimSpace(company) == "" {
		return nil, apperror.New(apperror.CodeValidation, "Company name is required.")
	}
	email, _ := payload["email"].(string)
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return nil, apperror.New(apperror.CodeValidation, "A valid email address is required.")
	}

	eventID := numericID(payload["eventId"])
	var eventName string
	if eventID != 0 {
		exists, err := s.exhibitorRepo.ExistsForEvent(ctx, email, eventID)
		if err != nil {
			return nil, apperror.Wrap(apperror.CodeSystem, "Failed to check existing registrations.", err)
		}
		if exists {
			return nil, apperror.New(apperror.CodeConflict, "This email is already registered for the event.")
		}
		eventRec, err := s.eventRepo.GetByID(ctx, eventID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "Event not found.")
		}
		if err != nil {
			return nil, apperror.Wrap(apperror.CodeSystem, "Failed to fetch event.", err)
		}
		eventName, _ = eventRec["event_name"].(string)
		if orgID, ok := eventRec["organization_id"].(int64); ok {
			if _, present := payload["organizationId"]; !present {
				payload["organizationId"] = orgID
			}
		}
	}

	password, _ := payload["password"].(string)
	generated := false
	var hash string
	if password == "" {
		// An exhibitor already registered for another event keeps the
		// same credentials; the new row copies the stored hash.
		if prior, err := s.exhibitorRepo.GetForLogin(ctx, email); err == nil && prior.PasswordHash != "" {
			hash = prior.PasswordHash
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Wrap(apperror.CodeSystem, "Failed to look up exhibitor.", err)
		} else {
			password = s.creds.DefaultPassword(email, company)
			generated = true
		}
	}
	if hash == "" {
		var err error
		hash, err = s.creds.Hash(password)
		if err != nil {
			return nil, err
		}
	}

	cols, err := s.schema.Columns(ctx, "exhibitors")
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to introspect exhibitors table.", err)
	}
	st, err := sqlbuild.Build(exhibitorFields, payload, cols, sqlbuild.Options{Timestamps: true})
	if errors.Is(err, sqlbuild.ErrNoColumns) {
		return nil, apperror.New(apperror.CodeConfig, "Exhibitors table schema is missing expected columns.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to build exhibitor record.", err)
	}
	if cols.Has("password_hash") {
		st.Append("password_hash", hash)
	}
	if cols.Has("access_status") && !st.Has("access_status") {
		st.Append("access_status", string(domain.AccessStatusActive))
	}

	rec, err := s.exhibitorRepo.Insert(ctx, st)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to register exhibitor.", err)
	}

	reg := &Registered{Record: rec}
	if generated {
		reg.Password = password
		reg.Email, _ = s.notifier.ExhibitorCredentials(ctx, email, company, eventName, password, s.cfg.Links.LoginBase)
	}
	return reg, nil
}

func (s *exhibitorService) Login(ctx context.Context, email, password string) (*domain.Exhibitor, error) {
	ex, err := s.exhibitorRepo.GetForLogin(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.New(apperror.CodeUnauthorized, "Invalid email or password.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to look up exhibitor.", err)
	}
	if !s.creds.Verify(ex.PasswordHash, password) {
		return nil, apperror.New(apperror.CodeUnauthorized, "Invalid email or password.")
	}
	if ex.AccessStatus == domain.AccessStatusSuspended {
		return nil, apperror.New(apperror.CodeForbidden, "This account has been suspended.")
	}
	if ex.AccessStatus == domain.AccessStatusInactive {
		return nil, apperror.New(apperror.CodeForbidden, "This account is inactive.")
	}
	ex.PasswordHash = ""
	return ex, nil
}

func (s *exhibitorService) Get(ctx context.Context, id int64) (*domain.Exhibitor, error) {
	ex, err := s.exhibitorRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.New(apperror.CodeNotFound, "Exhibitor not found.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to fetch exhibitor.", err)
	}
	ex.PasswordHash = ""
	return ex, nil
}

func (s *exhibitorService) ListByEvent(ctx context.Context, eventID int64) ([]domain.Exhibitor, error) {
	list, err := s.exhibitorRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to list exhibitors.", err)
	}
	return list, nil
}

func (s *exhibitorService) ListByOrganization(ctx context.Context, orgID int64) ([]domain.Exhibitor, error) {
	list, err := s.exhibitorRepo.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to list exhibitors.", err)
	}
	return list, nil
}

func (s *exhibitorService) UpdateAccessStatus(ctx context.Context, id int64, status domain.AccessStatus) error {
	switch status {
	case domain.AccessStatusActive, domain.AccessStatusSuspended, domain.AccessStatusInactive:
	default:
		return apperror.Newf(apperror.CodeValidation, "Unknown access status %q.", status)
	}
	err := s.exhibitorRepo.UpdateAccessStatus(ctx, id, status)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.New(apperror.CodeNotFound, "Exhibitor not found.")
	}
	if err != nil {
		return apperror.Wrap(apperror.CodeSystem, "Failed to update access status.", err)
	}
	return nil
}
