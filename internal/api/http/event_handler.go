package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/service"
)

type EventHandler struct {
	events service.EventService
}

func NewEventHandler(events service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.events.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "event": rec})
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.events.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "event": rec})
}

// GetByToken serves the public registration page lookup; no authentication
// context exists on this path.
func (h *EventHandler) GetByToken(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	rec, err := h.events.GetByToken(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "event": rec})
}

// ListByOrganization lists an organization's events; ?upcoming=true narrows
// to events that have not started and are still on.
func (h *EventHandler) ListByOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathID(r, "orgId")
	if err != nil {
		writeError(w, err)
		return
	}
	var recs []repository.Record
	if r.URL.Query().Get("upcoming") == "true" {
		recs, err = h.events.ListUpcomingByOrganization(r.Context(), orgID)
	} else {
		recs, err = h.events.ListByOrganization(r.Context(), orgID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "events": recs})
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	rec, err := h.events.Update(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "event": rec})
}

func (h *EventHandler) BackfillQR(w http.ResponseWriter, r *http.Request) {
	generated, err := h.events.BackfillMissingQR(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "generated": generated})
}
