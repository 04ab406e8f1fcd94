package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"expoevents-backend/internal/apperror"
	"expoevents-backend/internal/logger"
)

// errorBody is the uniform failure envelope: a stable machine code plus a
// human message. Internal error detail never leaves the process.
type errorBody struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorCode string `json:"errorCode"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := apperror.CodeOf(err)
	if code == apperror.CodeSystem || code == apperror.CodeConfig {
		logger.Error("Request failed", "code", code, "error", err)
	}
	writeJSON(w, apperror.HTTPStatus(code), errorBody{
		Error:     apperror.MessageOf(err),
		ErrorCode: string(code),
	})
}

// decodeBody parses a JSON request body into v, rejecting empty bodies.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return apperror.New(apperror.CodeValidation, "Request body is required.")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.Wrap(apperror.CodeValidation, "Invalid JSON in request body.", err)
	}
	return nil
}

// pathID extracts a numeric path variable.
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Newf(apperror.CodeValidation, "Invalid %s in path.", name)
	}
	return id, nil
}
