package postgres

import (
	"context"
	"database/sql"

	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/sqlbuild"
)

type leadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) repository.LeadRepository {
	return &leadRepository{db: db}
}

const leadColumns = `l.id, l.exhibitor_id, l.event_id, l.organization_id,
	COALESCE(l.name, ''), COALESCE(l.email, ''), COALESCE(l.phone, ''), COALESCE(l.company, ''),
	COALESCE(l.designation, ''), COALESCE(l.city, ''), COALESCE(l.state, ''), COALESCE(l.country, ''),
	COALESCE(l.industry, ''), COALESCE(l.source, ''), COALESCE(l.notes, ''), l.rating,
	COALESCE(l.status, ''), l.follow_up_date, l.additional_data, l.scanned_at, l.updated_at`

func (r *leadRepository) Insert(ctx context.Context, st *sqlbuild.Statement) (repository.Record, error) {
	return insertRecord(ctx, r.db, "leads", st)
}

func (r *leadRepository) Update(ctx context.Context, id int64, st *sqlbuild.Statement) (repository.Record, error) {
	return updateRecord(ctx, r.db, "leads", id, st)
}

func (r *leadRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *leadRepository) list(ctx context.Context, query string, args ...any) ([]domain.Lead, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		l := domain.Lead{}
		err := rows.Scan(
			&l.ID, &l.ExhibitorID, &l.EventID, &l.OrganizationID,
			&l.Name, &l.Email, &l.Phone, &l.Company,
			&l.Designation, &l.City, &l.State, &l.Country,
			&l.Industry, &l.Source, &l.Notes, &l.Rating,
			&l.Status, &l.FollowUpDate, &l.AdditionalData, &l.ScannedAt, &l.UpdatedAt,
			&l.ExhibitorName, &l.EventName,
		)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

const leadJoins = ` FROM leads l
	LEFT JOIN exhibitors e ON e.id = l.exhibitor_id
	LEFT JOIN events ev ON ev.id = l.event_id`

func (r *leadRepository) ListByExhibitor(ctx context.Context, exhibitorID int64) ([]domain.Lead, error) {
	query := `SELECT ` + leadColumns + `, COALESCE(e.company_name, ''), COALESCE(ev.event_name, '')` +
		leadJoins + ` WHERE l.exhibitor_id = $1 ORDER BY l.scanned_at DESC`
	return r.list(ctx, query, exhibitorID)
}

func (r *leadRepository) ListByEvent(ctx context.Context, eventID int64) ([]domain.Lead, error) {
	query := `SELECT ` + leadColumns + `, COALESCE(e.company_name, ''), COALESCE(ev.event_name, '')` +
		leadJoins + ` WHERE l.event_id = $1 ORDER BY l.scanned_at DESC`
	return r.list(ctx, query, eventID)
}

func (r *leadRepository) InsertScan(ctx context.Context, s *domain.ScannedVisitor) error {
	query := `INSERT INTO scanned_visitors (exhibitor_id, event_id, visitor_id, scan_type,
	              visitor_name, visitor_email, visitor_phone, visitor_company, visitor_designation,
	              visitor_unique_code, ocr_raw_text, notes, interest_level, scanned_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
	          RETURNING id, scanned_at`
	return r.db.QueryRowContext(ctx, query,
		s.ExhibitorID, s.EventID, s.VisitorID, s.ScanType,
		s.VisitorName, s.VisitorEmail, s.VisitorPhone, s.VisitorCompany, s.VisitorDesignation,
		s.VisitorUniqueCode, s.OCRRawText, s.Notes, s.InterestLevel,
	).Scan(&s.ID, &s.ScannedAt)
}

func (r *leadRepository) ListScansByExhibitor(ctx context.Context, exhibitorID int64) ([]domain.ScannedVisitor, error) {
	query := `SELECT id, exhibitor_id, event_id, visitor_id, scan_type,
	              COALESCE(visitor_name, ''), COALESCE(visitor_email, ''), COALESCE(visitor_phone, ''),
	              COALESCE(visitor_company, ''), COALESCE(visitor_designation, ''),
	              COALESCE(visitor_unique_code, ''), COALESCE(ocr_raw_text, ''),
	              COALESCE(notes, ''), COALESCE(interest_level, ''), scanned_at
	          FROM scanned_visitors WHERE exhibitor_id = $1 ORDER BY scanned_at DESC`
	rows, err := r.db.QueryContext(ctx, query, exhibitorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scans []domain.ScannedVisitor
	for rows.Next() {
		s := domain.ScannedVisitor{}
		err := rows.Scan(
			&s.ID, &s.ExhibitorID, &s.EventID, &s.VisitorID, &s.ScanType,
			&s.VisitorName, &s.VisitorEmail, &s.VisitorPhone,
			&s.VisitorCompany, &s.VisitorDesignation,
			&s.VisitorUniqueCode, &s.OCRRawText,
			&s.Notes, &s.InterestLevel, &s.ScannedAt,
		)
		if err != nil {
			return nil, err
		}
		scans = append(scans, s)
	}
	return scans, rows.Err()
}
