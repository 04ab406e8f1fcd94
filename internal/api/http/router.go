package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"expoevents-backend/internal/logger"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Organizations *OrganizationHandler
	Events        *EventHandler
	Exhibitors    *ExhibitorHandler
	Visitors      *VisitorHandler
	Leads         *LeadHandler
	Plans         *PlanHandler
	Invoices      *InvoiceHandler
	GST           *GSTHandler
	Uploads       *UploadHandler
}

// NewRouter mounts all API routes. Everything lives under /api; stored
// assets are served under /uploads.
func NewRouter(h Handlers) *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware)

	router.HandleFunc("/health", healthCheck).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	// Organization onboarding and accounts.
	api.HandleFunc("/organizations/invite", h.Organizations.SendInvite).Methods(http.MethodPost)
	api.HandleFunc("/organizations/invite/validate", h.Organizations.ValidateInvite).Methods(http.MethodGet)
	api.HandleFunc("/organizations/invite/accept", h.Organizations.AcceptInvite).Methods(http.MethodPost)
	api.HandleFunc("/organizations", h.Organizations.Create).Methods(http.MethodPost)
	api.HandleFunc("/organizations", h.Organizations.List).Methods(http.MethodGet)
	api.HandleFunc("/organizations/login", h.Organizations.Login).Methods(http.MethodPost)
	api.HandleFunc("/organizations/{id:[0-9]+}", h.Organizations.Get).Methods(http.MethodGet)
	api.HandleFunc("/organizations/{id:[0-9]+}", h.Organizations.Update).Methods(http.MethodPut)
	api.HandleFunc("/organizations/{orgId:[0-9]+}/users", h.Organizations.CreateUser).Methods(http.MethodPost)
	api.HandleFunc("/organizations/{orgId:[0-9]+}/users", h.Organizations.ListUsers).Methods(http.MethodGet)

	// Events. The token route is public: it backs the QR code on printed
	// material, so it takes no organization context.
	api.HandleFunc("/events", h.Events.Create).Methods(http.MethodPost)
	api.HandleFunc("/events/token/{token}", h.Events.GetByToken).Methods(http.MethodGet)
	api.HandleFunc("/events/{id:[0-9]+}", h.Events.Get).Methods(http.MethodGet)
	api.HandleFunc("/events/{id:[0-9]+}", h.Events.Update).Methods(http.MethodPut)
	api.HandleFunc("/events/{id:[0-9]+}/layout", h.Uploads.UploadGroundLayout).Methods(http.MethodPut, http.MethodPost)
	api.HandleFunc("/events/backfill-qr", h.Events.BackfillQR).Methods(http.MethodPost)
	api.HandleFunc("/organizations/{orgId:[0-9]+}/events", h.Events.ListByOrganization).Methods(http.MethodGet)

	// Exhibitors.
	api.HandleFunc("/exhibitors/register", h.Exhibitors.Register).Methods(http.MethodPost)
	api.HandleFunc("/exhibitors/login", h.Exhibitors.Login).Methods(http.MethodPost)
	api.HandleFunc("/exhibitors/{id:[0-9]+}", h.Exhibitors.Get).Methods(http.MethodGet)
	api.HandleFunc("/exhibitors/{id:[0-9]+}/access-status", h.Exhibitors.UpdateAccessStatus).Methods(http.MethodPut)
	api.HandleFunc("/events/{eventId:[0-9]+}/exhibitors", h.Exhibitors.ListByEvent).Methods(http.MethodGet)
	api.HandleFunc("/organizations/{orgId:[0-9]+}/exhibitors", h.Exhibitors.ListByOrganization).Methods(http.MethodGet)

	// Visitors.
	api.HandleFunc("/visitors/register", h.Visitors.Register).Methods(http.MethodPost)
	api.HandleFunc("/visitors/login", h.Visitors.Login).Methods(http.MethodPost)
	api.HandleFunc("/visitors/code/{code}", h.Visitors.GetByCode).Methods(http.MethodGet)
	api.HandleFunc("/events/{eventId:[0-9]+}/visitors", h.Visitors.ListByEvent).Methods(http.MethodGet)

	// Leads and badge scans.
	api.HandleFunc("/leads", h.Leads.Capture).Methods(http.MethodPost)
	api.HandleFunc("/leads/{id:[0-9]+}", h.Leads.Update).Methods(http.MethodPut)
	api.HandleFunc("/leads/{id:[0-9]+}", h.Leads.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/exhibitors/{exhibitorId:[0-9]+}/leads", h.Leads.ListByExhibitor).Methods(http.MethodGet)
	api.HandleFunc("/events/{eventId:[0-9]+}/leads", h.Leads.ListByEvent).Methods(http.MethodGet)
	api.HandleFunc("/scans", h.Leads.RecordScan).Methods(http.MethodPost)
	api.HandleFunc("/exhibitors/{exhibitorId:[0-9]+}/scans", h.Leads.ListScans).Methods(http.MethodGet)

	// Plans and coupons.
	api.HandleFunc("/plans", h.Plans.Create).Methods(http.MethodPost)
	api.HandleFunc("/plans", h.Plans.List).Methods(http.MethodGet)
	api.HandleFunc("/plans/{id:[0-9]+}", h.Plans.Get).Methods(http.MethodGet)
	api.HandleFunc("/coupons", h.Plans.ListCoupons).Methods(http.MethodGet)
	api.HandleFunc("/coupons/{code}/verify", h.Plans.VerifyCoupon).Methods(http.MethodGet)
	api.HandleFunc("/coupons/redeem", h.Plans.RedeemCoupon).Methods(http.MethodPost)

	// Invoices.
	api.HandleFunc("/invoices", h.Invoices.Create).Methods(http.MethodPost)
	api.HandleFunc("/invoices", h.Invoices.List).Methods(http.MethodGet)

	// GSTIN verification for the exhibitor registration form.
	api.HandleFunc("/gst/verify", h.GST.Verify).Methods(http.MethodPost)

	// Stored assets: ground layouts and generated QR images.
	router.HandleFunc("/uploads/{key:.+}", h.Uploads.ServeAsset).Methods(http.MethodGet)

	return router
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
