package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/clmgranada/intensivo-be/internal/auth"
	"github.com/clmgranada/intensivo-be/internal/services"
	"github.com/clmgranada/intensivo-be/internal/validation"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, login, and account endpoints.
type AuthHandler struct {
	users  services.UserServiceProvider
	tokens *auth.TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// Register handles new user registration. Validation runs first and
// reports every violated rule in one response.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if violations := validation.Run(validation.RegisterRules, body); len(violations) > 0 {
		writeValidationErrors(w, violations)
		return
	}

	input := services.CreateUserInput{
		FirstName:    strings.TrimSpace(bodyString(body, "firstName")),
		LastName:     strings.TrimSpace(bodyString(body, "lastName")),
		Email:        strings.TrimSpace(bodyString(body, "email")),
		Password:     bodyString(body, "password"),
		Phone:        bodyString(body, "phone"),
		Country:      bodyString(body, "country"),
		BirthDate:    bodyString(body, "birthDate"),
		University:   bodyString(body, "university"),
		SpanishLevel: bodyString(body, "spanishLevel"),
		StartDate:    bodyString(body, "startDate"),
		Motivation:   bodyString(body, "motivation"),
		Newsletter:   bodyBool(body, "newsletter"),
	}

	user, err := h.users.CreateUser(input)
	if err != nil {
		if err != services.ErrDuplicateEmail {
			log.Error().Err(err).Str("email", input.Email).Msg("Failed to register user")
		}
		writeServiceError(w, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue token")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeData(w, http.StatusCreated, "User registered successfully", map[string]interface{}{
		"user":  user.Sanitize(),
		"token": token,
	})
}

// Login handles user authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if violations := validation.Run(validation.LoginRules, body); len(violations) > 0 {
		writeValidationErrors(w, violations)
		return
	}

	email := strings.TrimSpace(bodyString(body, "email"))
	user, err := h.users.AuthenticateUser(email, bodyString(body, "password"))
	if err != nil {
		log.Warn().Err(err).Str("email", email).Msg("Failed authentication attempt")
		writeServiceError(w, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue token")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeData(w, http.StatusOK, "Login successful", map[string]interface{}{
		"user":  user.Sanitize(),
		"token": token,
	})
}

// GetMe returns the authenticated user together with their dashboard
// activity counts.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	stats, err := h.users.GetUserStats(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to load user stats")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusOK, "", map[string]interface{}{
		"user":  user,
		"stats": stats,
	})
}

// UpdateProfile applies whitelisted profile fields to the authenticated
// user. Non-whitelisted fields such as role are silently ignored.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if violations := validation.Run(validation.ProfileRules, body); len(violations) > 0 {
		writeValidationErrors(w, violations)
		return
	}

	updates := make(map[string]string, len(body))
	for key, value := range body {
		if s, ok := value.(string); ok {
			updates[key] = s
		}
	}

	updated, err := h.users.UpdateProfile(user.ID, updates)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to update profile")
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Profile updated successfully", updated.Sanitize())
}

// ChangePassword verifies the current password and replaces the hash.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if violations := validation.Run(validation.ChangePasswordRules, body); len(violations) > 0 {
		writeValidationErrors(w, violations)
		return
	}

	err = h.users.UpdatePassword(user.ID, bodyString(body, "currentPassword"), bodyString(body, "newPassword"))
	if err != nil {
		if err != services.ErrWrongPassword {
			log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to change password")
		}
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, "Password changed successfully", nil)
}

// ListUsers returns a page of user summaries. Restricted to admins by the
// router.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := h.users.ListUsers(limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusOK, "", users)
}
