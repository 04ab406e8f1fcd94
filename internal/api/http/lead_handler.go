package http

import (
	"net/http"

	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/service"
)

type LeadHandler struct {
	leads service.LeadService
}

func NewLeadHandler(leads service.LeadService) *LeadHandler {
	return &LeadHandler{leads: leads}
}

func (h *LeadHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.leads.Capture(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "lead": rec})
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var payload map[string]any
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.leads.Update(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "lead": rec})
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.leads.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *LeadHandler) ListByExhibitor(w http.ResponseWriter, r *http.Request) {
	exhibitorID, err := pathID(r, "exhibitorId")
	if err != nil {
		writeError(w, err)
		return
	}
	list, err := h.leads.ListByExhibitor(r.Context(), exhibitorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "leads": list})
}

func (h *LeadHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "eventId")
	if err != nil {
		writeError(w, err)
		return
	}
	list, err := h.leads.ListByEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "leads": list})
}

func (h *LeadHandler) RecordScan(w http.ResponseWriter, r *http.Request) {
	var scan domain.ScannedVisitor
	if err := decodeBody(r, &scan); err != nil {
		writeError(w, err)
		return
	}
	if err := h.leads.RecordScan(r.Context(), &scan); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "scan": scan})
}

func (h *LeadHandler) ListScans(w http.ResponseWriter, r *http.Request) {
	exhibitorID, err := pathID(r, "exhibitorId")
	if err != nil {
		writeError(w, err)
		return
	}
	list, err := h.leads.ListScans(r.Context(), exhibitorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "scans": list})
}
