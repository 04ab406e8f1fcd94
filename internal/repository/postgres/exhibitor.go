package postgres

import (
	"context"
	"database/sql"
	"errors"

	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/sqlbuild"
)

type exhibitorRepository struct {
	db *sql.DB
}

func NewExhibitorRepository(db *sql.DB) repository.ExhibitorRepository {
	return &exhibitorRepository{db: db}
}

const exhibitorColumns = `e.id, e.organization_id, e.event_id, e.company_name,
	COALESCE(e.gst_number, ''), COALESCE(e.address, ''), COALESCE(e.industry, ''),
	COALESCE(e.logo_url, ''), COALESCE(e.contact_person, ''), COALESCE(e.email, ''),
	COALESCE(e.mobile, ''), COALESCE(e.password_hash, ''), COALESCE(e.stall_number, ''),
	COALESCE(e.stall_category, ''), e.access_status, e.lead_capture, e.communication,
	e.created_at, e.updated_at`

func scanExhibitor(scanner interface{ Scan(...any) error }) (*domain.Exhibitor, error) {
	ex := &domain.Exhibitor{}
	err := scanner.Scan(
		&ex.ID, &ex.OrganizationID, &ex.EventID, &ex.CompanyName,
		&ex.GSTNumber, &ex.Address, &ex.Industry,
		&ex.LogoURL, &ex.ContactPerson, &ex.Email,
		&ex.Mobile, &ex.PasswordHash, &ex.StallNumber,
		&ex.StallCategory, &ex.AccessStatus, &ex.LeadCapture, &ex.Communication,
		&ex.CreatedAt, &ex.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ex, nil
}

func (r *exhibitorRepository) Insert(ctx context.Context, st *sqlbuild.Statement) (repository.Record, error) {
	rec, err := insertRecord(ctx, r.db, "exhibitors", st)
	if err != nil {
		return nil, err
	}
	delete(rec, "password_hash")
	return rec, nil
}

func (r *exhibitorRepository) GetByID(ctx context.Context, id int64) (*domain.Exhibitor, error) {
	query := `SELECT ` + exhibitorColumns + ` FROM exhibitors e WHERE e.id = $1`
	return scanExhibitor(r.db.QueryRowContext(ctx, query, id))
}

func (r *exhibitorRepository) GetForLogin(ctx context.Context, email string) (*domain.Exhibitor, error) {
	query := `SELECT ` + exhibitorColumns + ` FROM exhibitors e
	          WHERE LOWER(e.email) = LOWER($1) ORDER BY e.id DESC LIMIT 1`
	return scanExhibitor(r.db.QueryRowContext(ctx, query, email))
}

func (r *exhibitorRepository) list(ctx context.Context, query string, args ...any) ([]domain.Exhibitor, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exhibitors []domain.Exhibitor
	for rows.Next() {
		ex := &domain.Exhibitor{}
		err := rows.Scan(
			&ex.ID, &ex.OrganizationID, &ex.EventID, &ex.CompanyName,
			&ex.GSTNumber, &ex.Address, &ex.Industry,
			&ex.LogoURL, &ex.ContactPerson, &ex.Email,
			&ex.Mobile, &ex.PasswordHash, &ex.StallNumber,
			&ex.StallCategory, &ex.AccessStatus, &ex.LeadCapture, &ex.Communication,
			&ex.CreatedAt, &ex.UpdatedAt,
			&ex.EventName, &ex.OrganizationName,
		)
		if err != nil {
			return nil, err
		}
		ex.PasswordHash = ""
		exhibitors = append(exhibitors, *ex)
	}
	return exhibitors, rows.Err()
}

const exhibitorJoins = ` FROM exhibitors e
	LEFT JOIN events ev ON ev.id = e.event_id
	LEFT JOIN organizations o ON o.id = e.organization_id`

func (r *exhibitorRepository) ListByEvent(ctx context.Context, eventID int64) ([]domain.Exhibitor, error) {
	query := `SELECT ` + exhibitorColumns + `, COALESCE(ev.event_name, ''), COALESCE(o.org_name, '')` +
		exhibitorJoins + ` WHERE e.event_id = $1 ORDER BY e.created_at DESC`
	return r.list(ctx, query, eventID)
}

func (r *exhibitorRepository) ListByOrganization(ctx context.Context, orgID int64) ([]domain.Exhibitor, error) {
	query := `SELECT ` + exhibitorColumns + `, COALESCE(ev.event_name, ''), COALESCE(o.org_name, '')` +
		exhibitorJoins + ` WHERE e.organization_id = $1 ORDER BY e.created_at DESC`
	return r.list(ctx, query, orgID)
}

func (r *exhibitorRepository) ExistsForEvent(ctx context.Context, email string, eventID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM exhibitors WHERE LOWER(email) = LOWER($1) AND event_id = $2)`
	err := r.db.QueryRowContext(ctx, query, email, eventID).Scan(&exists)
	return exists, err
}

func (r *exhibitorRepository) UpdateAccessStatus(ctx context.Context, id int64, status domain.AccessStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE exhibitors SET access_status = $1, updated_at = NOW() WHERE id = $2`, status, id)
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
