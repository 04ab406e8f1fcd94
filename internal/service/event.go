package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"expoevents-backend/internal/apperror"
	"expoevents-backend/internal/config"
	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/logger"
	"expoevents-backend/internal/notification"
	"expoevents-backend/internal/qr"
	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/sqlbuild"
)

// eventFields maps the event payload onto candidate columns. Older
// deployments carry organizer_phone instead of organizer_mobile and
// name instead of event_name.
var eventFields = sqlbuild.FieldMap{
	{Key: "organizationId", Columns: []string{"organization_id"}},
	{Key: "eventName", Columns: []string{"event_name", "name"}},
	{Key: "description", Columns: []string{"description"}},
	{Key: "eventType", Columns: []string{"event_type"}},
	{Key: "eventMode", Columns: []string{"event_mode"}},
	{Key: "industry", Columns: []string{"industry"}},
	{Key: "organizerName", Columns: []string{"organizer_name"}},
	{Key: "contactPerson", Columns: []string{"contact_person"}},
	{Key: "organizerEmail", Columns: []string{"organizer_email"}},
	{Key: "organizerMobile", Columns: []string{"organizer_mobile", "organizer_phone"}},
	{Key: "venue", Columns: []string{"venue"}},
	{Key: "city", Columns: []string{"city"}},
	{Key: "state", Columns: []string{"state"}},
	{Key: "country", Columns: []string{"country"}},
	{Key: "startDate", Columns: []string{"start_date"}, Kind: sqlbuild.KindDate},
	{Key: "endDate", Columns: []string{"end_date"}, Kind: sqlbuild.KindDate},
	{Key: "registration", Columns: []string{"registration"}, Kind: sqlbuild.KindJSON},
	{Key: "leadCapture", Columns: []string{"lead_capture"}, Kind: sqlbuild.KindJSON},
	{Key: "communication", Columns: []string{"communication"}, Kind: sqlbuild.KindJSON},
	{Key: "enableStalls", Columns: []string{"enable_stalls"}, Kind: sqlbuild.KindBool},
	{Key: "stallConfig", Columns: []string{"stall_config"}, Kind: sqlbuild.KindJSON},
	{Key: "stallTypes", Columns: []string{"stall_types"}, Kind: sqlbuild.KindArray},
}

type eventService struct {
	eventRepo repository.EventRepository
	schema    repository.SchemaRepository
	qrGen     *qr.Generator
	notifier  *notification.Notifier
	cfg       *config.Config
}

func NewEventService(eventRepo repository.EventRepository, schema repository.SchemaRepository, qrGen *qr.Generator, notifier *notification.Notifier, cfg *config.Config) EventService {
	return &eventService{eventRepo: eventRepo, schema: schema, qrGen: qrGen, notifier: notifier, cfg: cfg}
}

func (s *eventService) registrationLink(token string) string {
	return fmt.Sprintf("%s/register/%s", s.cfg.Links.RegistrationBase, token)
}

func (s *eventService) Create(ctx context.Context, payload map[string]any) (repository.Record, error) {
	name, _ := payload["eventName"].(string)
	if name == "" {
		name, _ = payload["name"].(string)
	}
	if name == "" {
		return nil, apperror.New(apperror.CodeValidation, "Event name is required.")
	}
	if _, ok := payload["organizationId"]; !ok {
		if _, ok := payload["organization_id"]; !ok {
			return nil, apperror.New(apperror.CodeValidation, "Organization is required.")
		}
	}

	cols, err := s.schema.Columns(ctx, "events")
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to introspect events table.", err)
	}

	token := uuid.New().String()
	st, err := sqlbuild.Build(eventFields, payload, cols, sqlbuild.Options{
		StatusDefault: string(domain.EventStatusDraft),
		Timestamps:    true,
	})
	if errors.Is(err, sqlbuild.ErrNoColumns) {
		return nil, apperror.New(apperror.CodeConfig, "Events table schema is missing expected columns.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to build event record.", err)
	}
	// Schemas carrying both event_name and a legacy NOT NULL name column
	// need the name written to both.
	if cols.Has("name") && !st.Has("name") {
		st.Append("name", name)
	}
	if cols.Has("qr_token") {
		st.Append("qr_token", token)
	}
	if cols.Has("registration_link") {
		st.Append("registration_link", s.registrationLink(token))
	}

	rec, err := s.eventRepo.Insert(ctx, st)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to create event.", err)
	}

	// QR image generation is best-effort: the event exists either way and
	// the backfill job retries failures.
	if id, ok := rec["id"].(int64); ok {
		link := s.registrationLink(token)
		url, err := s.qrGen.GenerateForEvent(ctx, id, link)
		if err != nil {
			logger.Error("QR generation failed, backfill will retry", "event_id", id, "error", err)
		} else if err := s.eventRepo.SetQRAssets(ctx, id, url, link); err != nil {
			logger.Error("Failed to persist QR assets", "event_id", id, "error", err)
		} else {
			rec["qr_image_path"] = url
			rec["registration_link"] = link
		}
	}

	// Organizer confirmation is best-effort; the flag tells the client
	// whether it went out.
	if organizerEmail, _ := payload["organizerEmail"].(string); organizerEmail != "" {
		er := s.notifier.EventCreated(ctx, organizerEmail, name, s.registrationLink(token))
		rec["organizerEmailSent"] = er.Sent
	}
	return rec, nil
}

func (s *eventService) Get(ctx context.Context, id int64) (repository.Record, error) {
	rec, err := s.eventRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.New(apperror.CodeNotFound, "Event not found.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to fetch event.", err)
	}
	return rec, nil
}

func (s *eventService) GetByToken(ctx context.Context, token string) (repository.Record, error) {
	rec, err := s.eventRepo.GetByQRToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.New(apperror.CodeNotFound, "Event not found for this registration link.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to resolve registration link.", err)
	}
	return rec, nil
}

func (s *eventService) ListByOrganization(ctx context.Context, orgID int64) ([]repository.Record, error) {
	recs, err := s.eventRepo.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to list events.", err)
	}
	return recs, nil
}

func (s *eventService) ListUpcomingByOrganization(ctx context.Context, orgID int64) ([]repository.Record, error) {
	recs, err := s.eventRepo.ListUpcomingByOrganization(ctx, orgID)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to list upcoming events.", err)
	}
	return recs, nil
}

func (s *eventService) Update(ctx context.Context, id int64, payload map[string]any) (repository.Record, error) {
	cols, err := s.schema.Columns(ctx, "events")
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to introspect events table.", err)
	}

	updatable := sqlbuild.FieldMap{}
	for _, f := range eventFields {
		if f.Key == "organizationId" {
			continue // events cannot move between organizations
		}
		if _, ok := payload[f.Key]; ok {
			updatable = append(updatable, f)
		}
	}
	if status, ok := payload["status"].(string); ok && status != "" {
		payload["status"] = status
		updatable = append(updatable, sqlbuild.Field{Key: "status", Columns: []string{"status"}})
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

	rec, err := s.eventRepo.Update(ctx, id, st)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.New(apperror.CodeNotFound, "Event not found.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to update event.", err)
	}
	return rec, nil
}

func (s *eventService) SetGroundLayout(ctx context.Context, id int64, layoutURL string) error {
	if layoutURL == "" {
		return apperror.New(apperror.CodeValidation, "Layout URL is required.")
	}
	err := s.eventRepo.SetGroundLayout(ctx, id, layoutURL)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.New(apperror.CodeNotFound, "Event not found.")
	}
	if err != nil {
		return apperror.Wrap(apperror.CodeSystem, "Failed to save ground layout.", err)
	}
	return nil
}

const qrBackfillBatch = 50

func (s *eventService) BackfillMissingQR(ctx context.Context) (int, error) {
	events, err := s.eventRepo.ListMissingQR(ctx, qrBackfillBatch)
	if err != nil {
		return 0, apperror.Wrap(apperror.CodeSystem, "Failed to list events missing QR images.", err)
	}

	generated := 0
	for _, e := range events {
		link := s.registrationLink(e.QRToken)
		url, err := s.qrGen.GenerateForEvent(ctx, e.ID, link)
		if err != nil {
			logger.Error("QR backfill generation failed", "event_id", e.ID, "error", err)
			continue
		}
		if err := s.eventRepo.SetQRAssets(ctx, e.ID, url, link); err != nil {
			logger.Error("QR backfill persist failed", "event_id", e.ID, "error", err)
			continue
		}
		generated++
	}
	return generated, nil
}
