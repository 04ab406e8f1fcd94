package postgres

import (
	"context"
	"database/sql"
	"errors"

	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/sqlbuild"
)

type visitorRepository struct {
	db *sql.DB
}

func NewVisitorRepository(db *sql.DB) repository.VisitorRepository {
	return &visitorRepository{db: db}
}

const visitorColumns = `v.id, v.event_id, COALESCE(v.first_name, ''), COALESCE(v.last_name, ''),
	COALESCE(v.email, ''), COALESCE(v.mobile, ''), COALESCE(v.gender, ''), COALESCE(v.age_group, ''),
	COALESCE(v.organization, ''), COALESCE(v.designation, ''), COALESCE(v.visitor_category, ''),
	COALESCE(v.valid_dates, ''), COALESCE(v.password_hash, ''), v.unique_code, v.communication,
	v.created_at, v.updated_at`

const visitorEventJoin = `, COALESCE(ev.event_name, ''), ev.organization_id
	FROM visitors v LEFT JOIN events ev ON ev.id = v.event_id`

func scanVisitor(scanner interface{ Scan(...any) error }) (*domain.Visitor, error) {
	v := &domain.Visitor{}
	err := scanner.Scan(
		&v.ID, &v.EventID, &v.FirstName, &v.LastName,
		&v.Email, &v.Mobile, &v.Gender, &v.AgeGroup,
		&v.Organization, &v.Designation, &v.VisitorCategory,
		&v.ValidDates, &v.PasswordHash, &v.UniqueCode, &v.Communication,
		&v.CreatedAt, &v.UpdatedAt,
		&v.EventName, &v.EventOrganizationID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *visitorRepository) Insert(ctx context.Context, st *sqlbuild.Statement) (repository.Record, error) {
	rec, err := insertRecord(ctx, r.db, "visitors", st)
	if err != nil {
		return nil, err
	}
	delete(rec, "password_hash")
	return rec, nil
}

func (r *visitorRepository) GetByCode(ctx context.Context, code string) (*domain.Visitor, error) {
	query := `SELECT ` + visitorColumns + visitorEventJoin + ` WHERE v.unique_code = $1`
	return scanVisitor(r.db.QueryRowContext(ctx, query, code))
}

func (r *visitorRepository) GetByEmail(ctx context.Context, email string) (*domain.Visitor, error) {
	query := `SELECT ` + visitorColumns + visitorEventJoin + `
	          WHERE LOWER(v.email) = LOWER($1) ORDER BY v.id DESC LIMIT 1`
	return scanVisitor(r.db.QueryRowContext(ctx, query, email))
}

// FindByPhone matches the stored mobile exactly or by its last ten digits,
// so numbers saved with a country prefix still match bare entries.
func (r *visitorRepository) FindByPhone(ctx context.Context, phone string) (*domain.Visitor, error) {
	query := `SELECT ` + visitorColumns + visitorEventJoin + `
	          WHERE v.mobile = $1 OR RIGHT(v.mobile, 10) = RIGHT($1, 10)
	          ORDER BY v.id DESC LIMIT 1`
	return scanVisitor(r.db.QueryRowContext(ctx, query, phone))
}

func (r *visitorRepository) ListByEvent(ctx context.Context, eventID int64) ([]domain.Visitor, error) {
	query := `SELECT ` + visitorColumns + visitorEventJoin + `
	          WHERE v.event_id = $1 ORDER BY v.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitors []domain.Visitor
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, err
		}
		v.PasswordHash = ""
		visitors = append(visitors, *v)
	}
	return visitors, rows.Err()
}

func (r *visitorRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM visitors WHERE unique_code = $1)`, code).Scan(&exists)
	return exists, err
}
