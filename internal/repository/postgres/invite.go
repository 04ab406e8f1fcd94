package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/sqlbuild"
)

type inviteRepository struct {
	db     *sql.DB
	schema repository.SchemaRepository
}

func NewInviteRepository(db *sql.DB, schema repository.SchemaRepository) repository.InviteRepository {
	return &inviteRepository{db: db, schema: schema}
}

const inviteColumns = `id, email, COALESCE(mobile, ''), invite_token, status, expires_at, created_at, updated_at`

func scanInvite(row *sql.Row) (*domain.OrganizationInvite, error) {
	inv := &domain.OrganizationInvite{}
	err := row.Scan(&inv.ID, &inv.Email, &inv.Mobile, &inv.Token, &inv.Status,
		&inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *inviteRepository) Create(ctx context.Context, inv *domain.OrganizationInvite) error {
	query := `INSERT INTO organization_invites (email, mobile, invite_token, status, expires_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query, inv.Email, inv.Mobile, inv.Token, inv.Status, inv.ExpiresAt).
		Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
}

func (r *inviteRepository) GetByToken(ctx context.Context, token string) (*domain.OrganizationInvite, error) {
	query := `SELECT ` + inviteColumns + ` FROM organization_invites WHERE invite_token = $1`
	return scanInvite(r.db.QueryRowContext(ctx, query, token))
}

func (r *inviteRepository) FindPendingByEmail(ctx context.Context, email string) (*domain.OrganizationInvite, error) {
	query := `SELECT ` + inviteColumns + ` FROM organization_invites
	          WHERE LOWER(email) = LOWER($1) AND status = 'PENDING' AND expires_at > NOW()
	          ORDER BY id DESC LIMIT 1`
	return scanInvite(r.db.QueryRowContext(ctx, query, email))
}

func (r *inviteRepository) DeletePendingByIdentity(ctx context.Context, email, mobile string) (int64, error) {
	query := `DELETE FROM organization_invites
	          WHERE status = 'PENDING' AND (LOWER(email) = LOWER($1) OR mobile = $2)`
	res, err := r.db.ExecContext(ctx, query, email, mobile)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Accept redeems an invite in one transaction: lock the invite row, verify
// it is still PENDING and unexpired, verify the email has no organization,
// insert the organization, flip the invite to ACCEPTED. A concurrent
// redemption of the same token blocks on the row lock and then fails the
// PENDING check.
func (r *inviteRepository) Accept(ctx context.Context, token string, insert func(cols sqlbuild.ColumnSet) (*sqlbuild.Statement, error)) (repository.Record, error) {
	cols, err := r.schema.Columns(ctx, "organizations")
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	inv := &domain.OrganizationInvite{}
	lockQuery := `SELECT ` + inviteColumns + ` FROM organization_invites
	              WHERE invite_token = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, lockQuery, token).Scan(
		&inv.ID, &inv.Email, &inv.Mobile, &inv.Token, &inv.Status,
		&inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if inv.Status != domain.InviteStatusPending {
		return nil, repository.ErrInviteNotPending
	}
	if inv.Expired(time.Now()) {
		return nil, repository.ErrInviteExpired
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM organizations WHERE LOWER(primary_email) = LOWER($1))`,
		inv.Email).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, repository.ErrDuplicateEmail
	}

	st, err := insert(cols)
	if err != nil {
		return nil, err
	}
	rec, err := insertRecord(ctx, tx, "organizations", st)
	if err != nil {
		return nil, err
	}
	delete(rec, "password_hash")

	_, err = tx.ExecContext(ctx,
		`UPDATE organization_invites SET status = 'ACCEPTED', updated_at = NOW() WHERE id = $1`,
		inv.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *inviteRepository) PurgeExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `DELETE FROM organization_invites WHERE status = 'PENDING' AND expires_at < $1`
	res, err := r.db.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
