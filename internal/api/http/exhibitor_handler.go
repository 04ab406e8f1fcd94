package http

import (
	"net/http"

	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/service"
)

type ExhibitorHandler struct {
	exhibitors service.ExhibitorService
}

func NewExhibitorHandler(exhibitors service.ExhibitorService) *ExhibitorHandler {
	return &ExhibitorHandler{exhibitors: exhibitors}
}

func (h *ExhibitorHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	reg, err := h.exhibitors.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := map[string]any{
		"success":   true,
		"exhibitor": reg.Record,
		"email":     reg.Email,
	}
	if reg.Password != "" {
		resp["generatedPassword"] = reg.Password
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *ExhibitorHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	ex, err := h.exhibitors.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "exhibitor": ex})
}

func (h *ExhibitorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	ex, err := h.exhibitors.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "exhibitor": ex})
}

func (h *ExhibitorHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "eventId")
	if err != nil {
		writeError(w, err)
		return
	}
	list, err := h.exhibitors.ListByEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "exhibitors": list})
}

func (h *ExhibitorHandler) ListByOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathID(r, "orgId")
	if err != nil {
		writeError(w, err)
		return
	}
	list, err := h.exhibitors.ListByOrganization(r.Context(), orgID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "exhibitors": list})
}

type accessStatusRequest struct {
	AccessStatus string `json:"accessStatus"`
}

func (h *ExhibitorHandler) UpdateAccessStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req accessStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.exhibitors.UpdateAccessStatus(r.Context(), id, domain.AccessStatus(req.AccessStatus)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
