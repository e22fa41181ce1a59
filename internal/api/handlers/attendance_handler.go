package handlers

import (
	"net/http"
	"strconv"

	"github.com/clmgranada/intensivo-be/internal/auth"
	"github.com/clmgranada/intensivo-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AttendanceHandler handles HTTP requests for class attendance.
type AttendanceHandler struct {
	attendance services.AttendanceServiceProvider
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendance services.AttendanceServiceProvider) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// CheckIn opens an attendance record for the authenticated user.
func (h *AttendanceHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	body, err := decodeBody(r)
	if err != nil {
		body = map[string]any{} // check-in without a body is fine
	}

	record, err := h.attendance.CheckIn(user.ID, bodyString(body, "qrCode"), bodyString(body, "notes"))
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to check in")
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusCreated, "Checked in", record)
}

// CheckOut stamps the user's open attendance record.
func (h *AttendanceHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	record, err := h.attendance.CheckOut(user.ID)
	if err != nil {
		if err == services.ErrNotFound {
			writeError(w, http.StatusNotFound, "No open attendance record")
			return
		}
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to check out")
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Checked out", record)
}

// List returns the authenticated user's attendance history.
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.attendance.ListForUser(user.ID, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to list attendance")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusOK, "", records)
}
