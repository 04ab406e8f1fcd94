package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/service"
)

type PlanHandler struct {
	plans service.PlanService
}

func NewPlanHandler(plans service.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

type createPlanRequest struct {
	domain.Plan
	CouponPrefix string `json:"couponPrefix"`
}

func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	issued, err := h.plans.Create(r.Context(), &req.Plan, req.CouponPrefix)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := map[string]any{"success": true, "plan": issued.Plan}
	if issued.Coupon != nil {
		resp["coupon"] = issued.Coupon
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.plans.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "plans": list})
}

func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	plan, err := h.plans.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "plan": plan})
}

func (h *PlanHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	list, err := h.plans.ListCoupons(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "coupons": list})
}

func (h *PlanHandler) VerifyCoupon(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	coupon, err := h.plans.VerifyCoupon(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "coupon": coupon})
}

type redeemCouponRequest struct {
	Code string `json:"code"`
}

func (h *PlanHandler) RedeemCoupon(w http.ResponseWriter, r *http.Request) {
	var req redeemCouponRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	coupon, err := h.plans.RedeemCoupon(r.Context(), req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "coupon": coupon})
}
