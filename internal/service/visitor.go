package service

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"

	"expoevents-backend/internal/apperror"
	"expoevents-backend/internal/config"
	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/logger"
	"expoevents-backend/internal/notification"
	"expoevents-backend/internal/qr"
	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/sqlbuild"
)

// codeAlphabet excludes characters that read ambiguously on printed badges
// (0/O, 1/I/L).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	codeLength      = 8
	codePrefix      = "VIS-"
	codeMaxAttempts = 10
)

var visitorFields = sqlbuild.FieldMap{
	{Key: "eventId", Columns: []string{"event_id"}},
	{Key: "firstName", Columns: []string{"first_name"}},
	{Key: "lastName", Columns: []string{"last_name"}},
	{Key: "email", Columns: []string{"email"}},
	{Key: "mobile", Columns: []string{"mobile", "phone"}},
	{Key: "gender", Columns: []string{"gender"}},
	{Key: "ageGroup", Columns: []string{"age_group"}},
	{Key: "organization", Columns: []string{"organization", "company"}},
	{Key: "designation", Columns: []string{"designation"}},
	{Key: "visitorCategory", Columns: []string{"visitor_category"}},
	{Key: "validDates", Columns: []string{"valid_dates"}},
	{Key: "communication", Columns: []string{"communication"}, Kind: sqlbuild.KindJSON},
}

type visitorService struct {
	visitorRepo repository.VisitorRepository
	eventRepo   repository.EventRepository
	schema      repository.SchemaRepository
	creds       CredentialIssuer
	qrGen       *qr.Generator
	notifier    *notification.Notifier
	cfg         *config.Config
}

func NewVisitorService(
	visitorRepo repository.VisitorRepository,
	eventRepo repository.EventRepository,
	schema repository.SchemaRepository,
	qrGen *qr.Generator,
	notifier *notification.Notifier,
	cfg *config.Config,
) VisitorService {
	return &visitorService{
		visitorRepo: visitorRepo,
		eventRepo:   eventRepo,
		schema:      schema,
		qrGen:       qrGen,
		notifier:    notifier,
		cfg:         cfg,
	}
}

func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	b := strings.Builder{}
	b.WriteString(codePrefix)
	for _, c := range buf {
		b.WriteByte(codeAlphabet[int(c)%len(codeAlphabet)])
	}
	return b.String(), nil
}

// generateUniqueCode draws random codes until one is free. With a 32^8
// space collisions are vanishingly rare; the attempt cap guards against a
// broken uniqueness query looping forever.
func (s *visitorService) generateUniqueCode(ctx context.Context) (string, error) {
	for i := 0; i < codeMaxAttempts; i++ {
		code, err := randomCode()
		if err != nil {
			return "", apperror.Wrap(apperror.CodeSystem, "Failed to generate visitor code.", err)
		}
		exists, err := s.visitorRepo.CodeExists(ctx, code)
		if err != nil {
			return "", apperror.Wrap(apperror.CodeSystem, "Failed to check visitor code.", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", apperror.New(apperror.CodeSystem, "Could not allocate a unique visitor code.")
}

func (s *visitorService) Register(ctx context.Context, payload map[string]any) (*Registered, error) {
	firstName, _ := payload["firstName"].(string)
	if strings.TrimSpace(firstName) == "" {
		return nil, apperror.New(apperror.CodeValidation, "First name is required.")
	}
	email, _ := payload["email"].(string)
	mobile, _ := payload["mobile"].(string)
	if email == "" && mobile == "" {
		return nil, apperror.New(apperror.CodeValidation, "An email address or mobile number is required.")
	}
	if email != "" && !emailPattern.MatchString(email) {
		return nil, apperror.New(apperror.CodeValidation, "A valid email address is required.")
	}

	var eventName string
	if eventID := numericID(payload["eventId"]); eventID != 0 {
		eventRec, err := s.eventRepo.GetByID(ctx, eventID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "Event not found.")
		}
		if err != nil {
			return nil, apperror.Wrap(apperror.CodeSystem, "Failed to fetch event.", err)
		}
		eventName, _ = eventRec["event_name"].(string)
	}

	code, err := s.generateUniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	password, _ := payload["password"].(string)
	generated := false
	if password == "" && email != "" {
		lastName, _ := payload["lastName"].(string)
		password = s.creds.DefaultPassword(email, firstName+lastName)
		generated = true
	}

	cols, err := s.schema.Columns(ctx, "visitors")
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to introspect visitors table.", err)
	}
	st, err := sqlbuild.Build(visitorFields, payload, cols, sqlbuild.Options{Timestamps: true})
	if errors.Is(err, sqlbuild.ErrNoColumns) {
		return nil, apperror.New(apperror.CodeConfig, "Visitors table schema is missing expected columns.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to build visitor record.", err)
	}
	if cols.Has("unique_code") {
		st.Append("unique_code", code)
	}
	if password != "" && cols.Has("password_hash") {
		hash, err := s.creds.Hash(password)
		if err != nil {
			return nil, err
		}
		st.Append("password_hash", hash)
	}

	rec, err := s.visitorRepo.Insert(ctx, st)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to register visitor.", err)
	}

	// Badge QR is best-effort; registration stands without the image.
	if id, ok := rec["id"].(int64); ok {
		url, err := s.qrGen.GenerateForVisitor(ctx, id, code)
		if err != nil {
			logger.Error("Badge QR generation failed", "visitor_id", id, "error", err)
		} else {
			rec["qr_image_path"] = url
		}
	}

	name := strings.TrimSpace(firstName)
	emailRes, smsRes := s.notifier.VisitorConfirmation(ctx, email, mobile, name, eventName, code)

	reg := &Registered{Record: rec, UniqueCode: code, Email: emailRes, SMS: smsRes}
	if generated {
		reg.Password = password
	}
	return reg, nil
}

// Login authenticates a visitor. The credential is either the account
// password (bcrypt) or, for identities registered without one, the
// visitor's own mobile number typed into the password field.
func (s *visitorService) Login(ctx context.Context, identifier, password string) (*domain.Visitor, error) {
	if identifier == "" || password == "" {
		return nil, apperror.New(apperror.CodeValidation, "Email and password or phone number are required.")
	}

	var v *domain.Visitor
	var err error
	if strings.Contains(identifier, "@") {
		v, err = s.visitorRepo.GetByEmail(ctx, identifier)
	} else {
		v, err = s.visitorRepo.FindByPhone(ctx, identifier)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.New(apperror.CodeUnauthorized, "Invalid credentials.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to look up visitor.", err)
	}

	valid := false
	if v.PasswordHash != "" {
		valid = s.creds.Verify(v.PasswordHash, password)
	}
	if !valid && v.Mobile != "" {
		valid = mobileMatches(password, v.Mobile)
	}
	if !valid {
		return nil, apperror.New(apperror.CodeUnauthorized, "Invalid credentials.")
	}
	v.PasswordHash = ""
	return v, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// mobileMatches compares the password input against the visitor's mobile:
// full equality or a shared last-10-digit suffix in either direction.
func mobileMatches(input, mobile string) bool {
	in := digitsOnly(input)
	m := digitsOnly(mobile)
	if in == "" || m == "" {
		return false
	}
	if in == m {
		return true
	}
	if len(in) >= 10 && strings.HasSuffix(m, in[len(in)-10:]) {
		return true
	}
	if len(m) >= 10 && strings.HasSuffix(in, m[len(m)-10:]) {
		return true
	}
	return false
}

func (s *visitorService) GetByCode(ctx context.Context, code string, eventID int64) (*domain.Visitor, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	v, err := s.visitorRepo.GetByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.New(apperror.CodeNotFound, "No visitor found for this code.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to look up visitor.", err)
	}
	// A badge scanned at a different event is rejected, not just flagged:
	// gate staff must not admit a visitor registered elsewhere.
	if eventID != 0 && (v.EventID == nil || *v.EventID != eventID) {
		return nil, apperror.New(apperror.CodeForbidden, "This badge belongs to a different event.")
	}
	v.PasswordHash = ""
	return v, nil
}

func (s *visitorService) ListByEvent(ctx context.Context, eventID int64) ([]domain.Visitor, error) {
	list, err := s.visitorRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to list visitors.", err)
	}
	return list, nil
}

// numericID normalizes the JSON number forms an ID arrives in.
func numericID(v any) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case int64:
		return t
	case int:
		return int64(t)
	default:
		return 0
	}
}
