package http

import (
	"net/http"

	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/service"
)

type InvoiceHandler struct {
	invoices service.InvoiceService
}

func NewInvoiceHandler(invoices service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

type createInvoiceRequest struct {
	domain.Invoice
	// Terms is the billing form's name for the acceptance checkbox.
	Terms bool `json:"terms"`
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.Invoice.TermsAccepted = req.Invoice.TermsAccepted || req.Terms
	inv, err := h.invoices.Create(r.Context(), &req.Invoice)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "invoice": inv})
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.invoices.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "invoices": list})
}
