package postgres

import (
	"context"
	"database/sql"
	"errors"

	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/repository"
)

type planRepository struct {
	db *sql.DB
}

func NewPlanRepository(db *sql.DB) repository.PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(ctx context.Context, p *domain.Plan) error {
	query := `INSERT INTO plans (name, type, description, validity_days, status, limits, pricing, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW()) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		p.Name, p.Type, p.Description, p.ValidityDays, p.Status, p.Limits, p.Pricing,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *planRepository) List(ctx context.Context) ([]domain.Plan, error) {
	query := `SELECT id, name, type, COALESCE(description, ''), validity_days, status, limits, pricing, created_at
	          FROM plans ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		p := domain.Plan{}
		err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.Description,
			&p.ValidityDays, &p.Status, &p.Limits, &p.Pricing, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *planRepository) GetByID(ctx context.Context, id int64) (*domain.Plan, error) {
	p := &domain.Plan{}
	query := `SELECT id, name, type, COALESCE(description, ''), validity_days, status, limits, pricing, created_at
	          FROM plans WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Type, &p.Description,
		&p.ValidityDays, &p.Status, &p.Limits, &p.Pricing, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateCoupon relies on the unique index on code; the caller retries with
// a fresh code on a unique violation.
func (r *planRepository) CreateCoupon(ctx context.Context, c *domain.Coupon) error {
	query := `INSERT INTO coupons (code, plan_id, status, used_count, created_at)
	          VALUES ($1, $2, $3, 0, NOW()) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, c.Code, c.PlanID, c.Status).Scan(&c.ID, &c.CreatedAt)
}

func (r *planRepository) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	query := `SELECT c.id, c.code, c.plan_id, c.status, c.used_count, c.created_at,
	              p.name, p.type, p.limits, p.pricing, COALESCE(p.description, '')
	          FROM coupons c JOIN plans p ON p.id = c.plan_id
	          ORDER BY c.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []domain.Coupon
	for rows.Next() {
		c := domain.Coupon{}
		err := rows.Scan(
			&c.ID, &c.Code, &c.PlanID, &c.Status, &c.UsedCount, &c.CreatedAt,
			&c.PlanName, &c.PlanType, &c.PlanLimits, &c.PlanPricing, &c.PlanDescription)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

func (r *planRepository) GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	c := &domain.Coupon{}
	query := `SELECT c.id, c.code, c.plan_id, c.status, c.used_count, c.created_at,
	              p.name, p.type, p.limits, p.pricing, COALESCE(p.description, '')
	          FROM coupons c JOIN plans p ON p.id = c.plan_id
	          WHERE UPPER(c.code) = UPPER($1)`
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&c.ID, &c.Code, &c.PlanID, &c.Status, &c.UsedCount, &c.CreatedAt,
		&c.PlanName, &c.PlanType, &c.PlanLimits, &c.PlanPricing, &c.PlanDescription)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *planRepository) IncrementCouponUse(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE coupons SET used_count = used_count + 1 WHERE id = $1`, id)
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
