package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"expoevents-backend/internal/apperror"
	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/logger"
	"expoevents-backend/internal/repository"
)

const (
	couponCodeLength  = 6
	couponMaxAttempts = 5

	// defaultValidityDays applies when a plan is created without one.
	defaultValidityDays = 30

	// pqUniqueViolation is the Postgres error code for duplicate keys.
	pqUniqueViolation = "23505"
)

// PlanTypeCustom is the plan type that gets an access coupon on creation.
const PlanTypeCustom = "Custom"

type planService struct {
	planRepo repository.PlanRepository
}

func NewPlanService(planRepo repository.PlanRepository) PlanService {
	return &planService{planRepo: planRepo}
}

func randomCouponCode(prefix string) (string, error) {
	buf := make([]byte, couponCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	b := strings.Builder{}
	b.WriteString(strings.ToUpper(prefix))
	b.WriteByte('-')
	for _, c := range buf {
		b.WriteByte(codeAlphabet[int(c)%len(codeAlphabet)])
	}
	return b.String(), nil
}

// Create stores a plan. Custom plans additionally get a single coupon whose
// code is retried on unique-index collisions.
func (s *planService) Create(ctx context.Context, plan *domain.Plan, couponPrefix string) (*CouponIssued, error) {
	if strings.TrimSpace(plan.Name) == "" {
		return nil, apperror.New(apperror.CodeValidation, "Plan name is required.")
	}
	if plan.Status == "" {
		plan.Status = "Active"
	}
	if plan.ValidityDays == 0 {
		plan.ValidityDays = defaultValidityDays
	}
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to create plan.", err)
	}

	issued := &CouponIssued{Plan: plan}
	if plan.Type != PlanTypeCustom {
		return issued, nil
	}

	if couponPrefix == "" {
		couponPrefix = "PLAN"
	}
	for attempt := 0; attempt < couponMaxAttempts; attempt++ {
		code, err := randomCouponCode(couponPrefix)
		if err != nil {
			return nil, apperror.Wrap(apperror.CodeSystem, "Failed to generate coupon code.", err)
		}
		coupon := &domain.Coupon{Code: code, PlanID: plan.ID, Status: "Active"}
		err = s.planRepo.CreateCoupon(ctx, coupon)
		if err == nil {
			issued.Coupon = coupon
			return issued, nil
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			logger.Debug("Coupon code collision, retrying", "attempt", attempt+1)
			continue
		}
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to create coupon.", err)
	}
	return nil, apperror.New(apperror.CodeSystem,
		fmt.Sprintf("Could not allocate a unique coupon code after %d attempts.", couponMaxAttempts))
}

func (s *planService) List(ctx context.Context) ([]domain.Plan, error) {
	plans, err := s.planRepo.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to list plans.", err)
	}
	return plans, nil
}

func (s *planService) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	coupons, err := s.planRepo.ListCoupons(ctx)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to list coupons.", err)
	}
	return coupons, nil
}

func (s *planService) Get(ctx context.Context, id int64) (*domain.Plan, error) {
	plan, err := s.planRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.New(apperror.CodeNotFound, "Plan not found.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to fetch plan.", err)
	}
	return plan, nil
}

func (s *planService) VerifyCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	coupon, err := s.planRepo.GetCouponByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.New(apperror.CodeNotFound, "Invalid coupon code.")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to verify coupon.", err)
	}
	if coupon.Status != "Active" {
		return nil, apperror.New(apperror.CodeConflict, "This coupon is no longer active.")
	}
	return coupon, nil
}

func (s *planService) RedeemCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	coupon, err := s.VerifyCoupon(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.planRepo.IncrementCouponUse(ctx, coupon.ID); err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to redeem coupon.", err)
	}
	coupon.UsedCount++
	return coupon, nil
}
