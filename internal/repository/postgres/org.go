package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/sqlbuild"
)

type organizationRepository struct {
	db     *sql.DB
	schema repository.SchemaRepository
}

func NewOrganizationRepository(db *sql.DB, schema repository.SchemaRepository) repository.OrganizationRepository {
	return &organizationRepository{db: db, schema: schema}
}

func (r *organizationRepository) Insert(ctx context.Context, st *sqlbuild.Statement) (repository.Record, error) {
	rec, err := insertRecord(ctx, r.db, "organizations", st)
	if err != nil {
		return nil, err
	}
	delete(rec, "password_hash")
	return rec, nil
}

func (r *organizationRepository) Update(ctx context.Context, id int64, st *sqlbuild.Statement) (repository.Record, error) {
	rec, err := updateRecord(ctx, r.db, "organizations", id, st)
	if err != nil {
		return nil, err
	}
	delete(rec, "password_hash")
	return rec, nil
}

// List returns every organization with the credential column stripped. The
// projection is computed from the live schema so deployments missing newer
// columns still list cleanly.
func (r *organizationRepository) List(ctx context.Context) ([]repository.Record, error) {
	recs, err := queryRecords(ctx, r.db, `SELECT * FROM organizations ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		delete(rec, "password_hash")
	}
	return recs, nil
}

func (r *organizationRepository) GetByID(ctx context.Context, id int64) (repository.Record, error) {
	rec, err := queryRecord(ctx, r.db, `SELECT * FROM organizations WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	delete(rec, "password_hash")
	return rec, nil
}

// firstColumn returns the first candidate present in the live column set.
// Candidates are fixed identifiers, never request input, so the result is
// safe to splice into SQL.
func firstColumn(cols sqlbuild.ColumnSet, candidates ...string) string {
	for _, c := range candidates {
		if cols.Has(c) {
			return c
		}
	}
	return ""
}

// GetForLogin reads the stable credential subset. Column names drift across
// schema generations (org_name vs name, primary_email vs email, password_hash
// vs password), so the select list is resolved against the live schema.
func (r *organizationRepository) GetForLogin(ctx context.Context, email string) (*domain.Organization, error) {
	cols, err := r.schema.Columns(ctx, "organizations")
	if err != nil {
		return nil, err
	}

	emailCol := firstColumn(cols, "primary_email", "email")
	passCol := firstColumn(cols, "password_hash", "password")
	if emailCol == "" || passCol == "" {
		return nil, fmt.Errorf("organizations table has no usable email or password column")
	}

	nameExpr := "''"
	if c := firstColumn(cols, "org_name", "name", "organization_name"); c != "" {
		nameExpr = c
	}
	mobileExpr := "''"
	if c := firstColumn(cols, "primary_mobile", "mobile", "phone"); c != "" {
		mobileExpr = "COALESCE(" + c + ", '')"
	}
	statusExpr := "'Active'"
	if cols.Has("status") {
		statusExpr = "status"
	}

	predicate := "LOWER(" + emailCol + ") = LOWER($1)"
	if cols.Has("contact_email") && emailCol != "contact_email" {
		predicate = "(" + predicate + " OR LOWER(contact_email) = LOWER($1))"
	}

	org := &domain.Organization{}
	query := fmt.Sprintf(
		`SELECT id, %s, %s, %s, COALESCE(%s, ''), %s, created_at, updated_at FROM organizations WHERE %s ORDER BY id DESC LIMIT 1`,
		nameExpr, emailCol, mobileExpr, passCol, statusExpr, predicate)
	err = r.db.QueryRowContext(ctx, query, email).Scan(
		&org.ID, &org.OrgName, &org.PrimaryEmail, &org.PrimaryMobile,
		&org.PasswordHash, &org.Status, &org.CreatedAt, &org.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (r *organizationRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM organizations WHERE LOWER(primary_email) = LOWER($1))`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	return exists, err
}

func (r *organizationRepository) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM organization_users WHERE LOWER(email) = LOWER($1))`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	return exists, err
}

func (r *organizationRepository) InsertUser(ctx context.Context, st *sqlbuild.Statement) (repository.Record, error) {
	rec, err := insertRecord(ctx, r.db, "organization_users", st)
	if err != nil {
		return nil, err
	}
	delete(rec, "password_hash")
	return rec, nil
}

func (r *organizationRepository) ListUsers(ctx context.Context, orgID int64) ([]repository.Record, error) {
	recs, err := queryRecords(ctx, r.db,
		`SELECT * FROM organization_users WHERE organization_id = $1 ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		delete(rec, "password_hash")
	}
	return recs, nil
}
