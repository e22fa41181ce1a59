package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/clmgranada/intensivo-be/internal/auth"
	"github.com/clmgranada/intensivo-be/internal/models"
	"github.com/clmgranada/intensivo-be/internal/services"
	"github.com/rs/zerolog/log"
)

// ResourceHandler handles HTTP requests for course materials.
type ResourceHandler struct {
	resources services.ResourceServiceProvider
}

// NewResourceHandler creates a new ResourceHandler.
func NewResourceHandler(resources services.ResourceServiceProvider) *ResourceHandler {
	return &ResourceHandler{resources: resources}
}

// List returns course materials, optionally filtered by category or week.
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	week, _ := strconv.Atoi(r.URL.Query().Get("week"))
	resources, err := h.resources.List(r.URL.Query().Get("category"), week)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list resources")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeData(w, http.StatusOK, "", resources)
}

// Create stores a new course material. Restricted to admins by the router.
func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	title := strings.TrimSpace(bodyString(body, "title"))
	if title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	week, _ := body["week"].(float64)
	resource := models.Resource{
		Title:       title,
		Description: bodyString(body, "description"),
		FileURL:     bodyString(body, "fileUrl"),
		FileType:    bodyString(body, "fileType"),
		Category:    bodyString(body, "category"),
		Week:        int(week),
		UploadedBy:  user.ID,
	}

	created, err := h.resources.Create(resource)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to create resource")
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusCreated, "Resource created", created)
}
