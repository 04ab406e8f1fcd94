package postgres

import (
	"context"
	"database/sql"

	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/sqlbuild"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Insert(ctx context.Context, st *sqlbuild.Statement) (repository.Record, error) {
	return insertRecord(ctx, r.db, "events", st)
}

func (r *eventRepository) Update(ctx context.Context, id int64, st *sqlbuild.Statement) (repository.Record, error) {
	return updateRecord(ctx, r.db, "events", id, st)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (repository.Record, error) {
	return queryRecord(ctx, r.db, `SELECT * FROM events WHERE id = $1`, id)
}

func (r *eventRepository) GetByQRToken(ctx context.Context, token string) (repository.Record, error) {
	return queryRecord(ctx, r.db, `SELECT * FROM events WHERE qr_token = $1`, token)
}

func (r *eventRepository) ListByOrganization(ctx context.Context, orgID int64) ([]repository.Record, error) {
	return queryRecords(ctx, r.db,
		`SELECT * FROM events WHERE organization_id = $1 ORDER BY created_at DESC`, orgID)
}

func (r *eventRepository) ListUpcomingByOrganization(ctx context.Context, orgID int64) ([]repository.Record, error) {
	return queryRecords(ctx, r.db,
		`SELECT * FROM events
		 WHERE organization_id = $1 AND start_date >= CURRENT_DATE
		   AND COALESCE(status, '') NOT IN ('Cancelled', 'Completed')
		 ORDER BY start_date ASC`, orgID)
}

func (r *eventRepository) ListMissingQR(ctx context.Context, limit int) ([]domain.Event, error) {
	query := `SELECT id, event_name, qr_token FROM events
	          WHERE qr_token IS NOT NULL AND (qr_image_path IS NULL OR qr_image_path = '')
	          ORDER BY id LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.EventName, &e.QRToken); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) SetQRAssets(ctx context.Context, id int64, qrImagePath, registrationLink string) error {
	query := `UPDATE events SET qr_image_path = $1, registration_link = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, qrImagePath, registrationLink, id)
	return err
}

func (r *eventRepository) SetGroundLayout(ctx context.Context, id int64, layoutURL string) error {
	query := `UPDATE events SET ground_layout_url = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, layoutURL, id)
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
