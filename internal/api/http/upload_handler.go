package http

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"expoevents-backend/internal/apperror"
	"expoevents-backend/internal/service"
	"expoevents-backend/internal/storage"
)

const maxUploadSize = 10 << 20 // 10 MiB

// UploadHandler accepts ground layout uploads for events and serves stored
// assets (layouts and generated QR images) back by key.
type UploadHandler struct {
	store  storage.Store
	events service.EventService
}

func NewUploadHandler(store storage.Store, events service.EventService) *UploadHandler {
	return &UploadHandler{store: store, events: events}
}

func layoutExtension(contentType string) (string, bool) {
	switch contentType {
	case "image/jpeg":
		return ".jpg", true
	case "image/png":
		return ".png", true
	case "application/pdf":
		return ".pdf", true
	default:
		return "", false
	}
}

// UploadGroundLayout stores the uploaded layout file and records its URL on
// the event.
func (h *UploadHandler) UploadGroundLayout(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	contentType := r.Header.Get("Content-Type")
	ext, ok := layoutExtension(contentType)
	if !ok {
		writeError(w, apperror.New(apperror.CodeValidation, fmt.Sprintf("unsupported layout content type %q", contentType)))
		return
	}

	key := fmt.Sprintf("layouts/event-%d%s", eventID, ext)
	url, err := h.store.Save(r.Context(), key, http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		writeError(w, apperror.Wrap(apperror.CodeSystem, "saving ground layout", err))
		return
	}

	if err := h.events.SetGroundLayout(r.Context(), eventID, url); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "groundLayoutUrl": url})
}

// ServeAsset streams a stored asset. Keys are namespaced paths such as
// layouts/event-1.png or qrcodes/visitor-42.png.
func (h *UploadHandler) ServeAsset(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" || strings.Contains(key, "..") {
		writeError(w, apperror.New(apperror.CodeValidation, "invalid asset key"))
		return
	}

	file, err := h.store.Open(r.Context(), key)
	if err != nil {
		writeError(w, apperror.New(apperror.CodeNotFound, "asset not found"))
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".pdf":
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	io.Copy(w, file)
}
