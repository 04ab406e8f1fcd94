package http

import (
	"net"
	"net/http"
	"strings"

	"expoevents-backend/internal/gst"
)

type GSTHandler struct {
	gst *gst.Service
}

func NewGSTHandler(svc *gst.Service) *GSTHandler {
	return &GSTHandler{gst: svc}
}

type verifyGSTRequest struct {
	GSTIN string `json:"gstin"`
}

// Verify checks a GSTIN against the upstream registry. The result is always
// a 200 response; failures are reported through the success flag and error
// code so the registration form can surface them inline.
func (h *GSTHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyGSTRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	result := h.gst.Verify(r.Context(), req.GSTIN, clientIdentifier(r))
	status := http.StatusOK
	if !result.Success && result.ErrorCode == gst.ErrCodeRateLimit {
		status = http.StatusTooManyRequests
	}
	writeJSON(w, status, result)
}

// clientIdentifier keys the per-client rate limit. Proxied requests carry the
// original address in X-Forwarded-For.
func clientIdentifier(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
