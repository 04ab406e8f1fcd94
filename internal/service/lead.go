package service

import (
	"context"
	"errors"

	"expoevents-backend/internal/apperror"
	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/sqlbuild"
)

var leadFields = sqlbuild.FieldMap{
	{Key: "exhibitorId", Columns: []string{"exhibitor_id"}},
	{Key: "eventId", Columns: []string{"event_id"}},
	{Key: "organizationId", Columns: []string{"organization_id"}},
	{Key: "name", Columns: []string{"name", "visitor_name"}},
	{Key: "email", Columns: []string{"email"}},
	{Key: "phone", Columns: []string{"phone", "mobile"}},
	{Key: "company", Columns: []string{"company"}},
	{Key: "designation", Columns: []string{"designation"}},
	{Key: "city", Columns: []string{"city"}},
	{Key: "state", Columns: []string{"state"}},
	{Key: "country", Columns: []string{"country"}},
	{Key: "industry", Columns: []string{"industry"}},
	{Key: "source", Columns: []string{"source"}},
	{Key: "notes", Columns: []string{"notes"}},
	{Key: "rating", Columns: []string{"rating"}},
	{Key: "status", Columns: []string{"status"}},
	{Key: "followUpDate", Columns: []string{"follow_up_date"}, Kind: sqlbuild.KindDate},
	{Key: "additionalData", Columns: []string{"additional_data"}, Kind: sqlbuild.KindJSON},
}

type leadService struct {
	leadRepo repository.LeadRepository
	schema   repository.SchemaRepository
}

func NewLeadService(leadRepo repository.LeadRepository, schema repository.SchemaRepository) LeadService {
	return &leadService{leadRepo: leadRepo, schema: schema}
}

// Capture stores one lead. Duplicate captures of the same visitor are
// allowed; repeat scans carry signal for the exhibitor.
func (s *leadService) Capture(ctx context.Context, payload map[string]any) (repository.Record, error) {
	if numericID(payload["exhibitorId"]) == 0 {
		return nil, apperror.New(apperror.CodeValidation, "Exhibitor is required.")
	}

	cols, err := s.schema.Columns(ctx, "leads")
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to introspect leads table.", err)
	}
	st, err := sqlbuild.Build(leadFields, payload, cols, sqlbuild.Options{Timestamps: false})
	if err != nil {
		if errors.Is(err, sqlbuild.ErrNoColumns) {
			return nil, apperror.New(apperror.CodeConfig, "Leads table schema is missing expected columns.")
		}
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to build lead record.", err)
	}
	if cols.Has("source") && !st.Has("source") {
		st.Append("source", "QR Scan")
	}
	if cols.Has("status") && !st.Has("status") {
		st.Append("status", "New")
	}
	if cols.Has("scanned_at") {
		st.AppendLiteral("scanned_at", "NOW()")
	}
	if cols.Has("updated_at") {
		st.AppendLiteral("updated_at", "NOW()")
	}

	rec, err := s.leadRepo.Insert(ctx, st)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to capture lead.", err)
	}
	return rec, nil
}

// Update rewrites only the fields present in the payload; absent fields
// keep their stored values.
func (s *leadService) Update(ctx context.Context, id int64, payload map[string]any) (repository.Record, error) {
	cols, err := s.schema.Columns(ctx, "leads")
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to introspect leads table.", err)
	}

	updatable := sqlbuild.FieldMap{}
	for _, f := range leadFields {
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

	rec, err := s.leadRepo.Update(ctx, id, st)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.New(apperror.CodeNotFound, "Lead not found.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to update lead.", err)
	}
	return rec, nil
}

func (s *leadService) Delete(ctx context.Context, id int64) error {
	err := s.leadRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.New(apperror.CodeNotFound, "Lead not found.")
	}
	if err != nil {
		return apperror.Wrap(apperror.CodeSystem, "Failed to delete lead.", err)
	}
	return nil
}

func (s *leadService) ListByExhibitor(ctx context.Context, exhibitorID int64) ([]domain.Lead, error) {
	leads, err := s.leadRepo.ListByExhibitor(ctx, exhibitorID)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to list leads.", err)
	}
	return leads, nil
}

func (s *leadService) ListByEvent(ctx context.Context, eventID int64) ([]domain.Lead, error) {
	leads, err := s.leadRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to list leads.", err)
	}
	return leads, nil
}

func (s *leadService) RecordScan(ctx context.Context, scan *domain.ScannedVisitor) error {
	switch scan.ScanType {
	case domain.ScanTypeQR, domain.ScanTypeOCR:
	default:
		return apperror.Newf(apperror.CodeValidation, "Unknown scan type %q.", scan.ScanType)
	}
	if scan.ExhibitorID == nil {
		return apperror.New(apperror.CodeValidation, "Exhibitor is required.")
	}
	if err := s.leadRepo.InsertScan(ctx, scan); err != nil {
		return apperror.Wrap(apperror.CodeSystem, "Failed to record scan.", err)
	}
	return nil
}

func (s *leadService) ListScans(ctx context.Context, exhibitorID int64) ([]domain.ScannedVisitor, error) {
	scans, err := s.leadRepo.ListScansByExhibitor(ctx, exhibitorID)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to list scans.", err)
	}
	return scans, nil
}
