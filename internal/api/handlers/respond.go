package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clmgranada/intensivo-be/internal/services"
	"github.com/clmgranada/intensivo-be/internal/validation"
	"github.com/rs/zerolog/log"
)

// envelope is the stable response shape for every endpoint.
type envelope struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message,omitempty"`
	Data    interface{}             `json:"data,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeData(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

func writeValidationErrors(w http.ResponseWriter, violations []validation.FieldError) {
	writeJSON(w, http.StatusBadRequest, envelope{Success: false, Errors: violations})
}

// writeServiceError maps service sentinel errors to HTTP statuses. Anything
// unrecognized is logged and hidden behind a generic 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "This email address is already registered")
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrAccountInactive):
		writeError(w, http.StatusForbidden, "Your account has been deactivated. Contact an administrator.")
	case errors.Is(err, services.ErrWrongPassword):
		writeError(w, http.StatusUnauthorized, "Current password is incorrect")
	default:
		log.Error().Err(err).Msg("Unexpected service error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeBody reads a JSON object body into a generic map so validation
// rule tables can inspect every field as submitted.
func decodeBody(r *http.Request) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

func bodyString(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}

func bodyBool(body map[string]any, key string) bool {
	b, _ := body[key].(bool)
	return b
}
