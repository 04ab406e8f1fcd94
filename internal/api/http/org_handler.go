package http

import (
	"net/http"

	"expoevents-backend/internal/service"
)

type OrganizationHandler struct {
	orgs service.OrganizationService
}

func NewOrganizationHandler(orgs service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgs: orgs}
}

type sendInviteRequest struct {
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

func (h *OrganizationHandler) SendInvite(w http.ResponseWriter, r *http.Request) {
	var req sendInviteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	issued, err := h.orgs.SendInvite(r.Context(), req.Email, req.Mobile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"inviteLink": issued.InviteLink,
		"expiresAt":  issued.Invite.ExpiresAt,
		"email":      issued.Email,
		"sms":        issued.SMS,
	})
}

func (h *OrganizationHandler) ValidateInvite(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	inv, err := h.orgs.ValidateInvite(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"email":     inv.Email,
		"mobile":    inv.Mobile,
		"expiresAt": inv.ExpiresAt,
	})
}

func (h *OrganizationHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	token, _ := payload["token"].(string)
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	rec, err := h.orgs.AcceptInvite(r.Context(), token, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "organization": rec})
}

func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.orgs.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "organization": rec})
}

func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.orgs.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "organizations": recs})
}

func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.orgs.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "organization": rec})
}

func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	rec, err := h.orgs.Update(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "organization": rec})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *OrganizationHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	org, err := h.orgs.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "organization": org})
}

func (h *OrganizationHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathID(r, "orgId")
	if err != nil {
		writeError(w, err)
		return
	}
	var payload map[string]any
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.orgs.CreateUser(r.Context(), orgID, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "user": rec})
}

func (h *OrganizationHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathID(r, "orgId")
	if err != nil {
		writeError(w, err)
		return
	}
	recs, err := h.orgs.ListUsers(r.Context(), orgID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "users": recs})
}
