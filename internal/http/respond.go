package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"tracker/internal/core"
	applog "tracker/internal/log"
)

// Messages sent for client errors. Server errors carry the underlying
// error text instead.
const (
	msgMissingFields = "Missing required fields"
	msgNotFound      = "Expense not found"
	msgInvalidInput  = "Invalid request body"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps a service error onto its HTTP status and response message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrMissingFields):
		return http.StatusBadRequest, msgMissingFields
	case errors.Is(err, core.ErrInvalidInput):
		return http.StatusBadRequest, msgInvalidInput
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	logger := applog.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", applog.FieldError, err, applog.FieldPath, r.URL.Path)
	} else {
		logger.DebugContext(r.Context(), "Request rejected", applog.FieldError, err, applog.FieldStatusCode, status)
	}
	writeJSON(w, status, errorBody{Error: msg})
}
