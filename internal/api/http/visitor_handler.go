package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"expoevents-backend/internal/apperror"
	"expoevents-backend/internal/service"
)

type VisitorHandler struct {
	visitors service.VisitorService
}

func NewVisitorHandler(visitors service.VisitorService) *VisitorHandler {
	return &VisitorHandler{visitors: visitors}
}

func (h *VisitorHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	reg, err := h.visitors.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := map[string]any{
		"success":    true,
		"visitor":    reg.Record,
		"uniqueCode": reg.UniqueCode,
		"email":      reg.Email,
		"sms":        reg.SMS,
	}
	// The plaintext password is only ever returned here, once.
	if reg.Password != "" {
		resp["generatedPassword"] = reg.Password
	}
	writeJSON(w, http.StatusCreated, resp)
}

type visitorLoginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	Password   string `json:"password"`
}

func (h *VisitorHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req visitorLoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" {
		identifier = req.Mobile
	}
	v, err := h.visitors.Login(r.Context(), identifier, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "visitor": v})
}

// GetByCode looks up a badge. An optional eventId query parameter rejects
// badges issued for a different event.
func (h *VisitorHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var eventID int64
	if raw := r.URL.Query().Get("eventId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, apperror.New(apperror.CodeValidation, "Invalid eventId query parameter."))
			return
		}
		eventID = id
	}
	v, err := h.visitors.GetByCode(r.Context(), code, eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "visitor": v})
}

func (h *VisitorHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "eventId")
	if err != nil {
		writeError(w, err)
		return
	}
	list, err := h.visitors.ListByEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "visitors": list})
}
