package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/clmgranada/intensivo-be/internal/auth"
	"github.com/clmgranada/intensivo-be/internal/chat"
	"github.com/clmgranada/intensivo-be/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ForumHandler handles HTTP requests for the student forum.
type ForumHandler struct {
	forum services.ForumServiceProvider
	hub   *chat.Hub
}

// NewForumHandler creates a new ForumHandler. New posts are announced to
// connected dashboard clients through the hub.
func NewForumHandler(forum services.ForumServiceProvider, hub *chat.Hub) *ForumHandler {
	return &ForumHandler{forum: forum, hub: hub}
}

// ListPosts returns recent threads, pinned first.
func (h *ForumHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	posts, err := h.forum.ListPosts(r.URL.Query().Get("category"), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list forum posts")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeData(w, http.StatusOK, "", posts)
}

// GetPost returns a thread with its replies.
func (h *ForumHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, replies, err := h.forum.GetPost(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", map[string]interface{}{
		"post":    post,
		"replies": replies,
	})
}

// CreatePost opens a new thread as the authenticated user.
func (h *ForumHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
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
	content := strings.TrimSpace(bodyString(body, "content"))
	if title == "" || content == "" {
		writeError(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	post, err := h.forum.CreatePost(user.ID, title, content, bodyString(body, "category"))
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to create forum post")
		writeServiceError(w, err)
		return
	}

	h.hub.Broadcast <- chat.NewNotificationMessage("forum_post_created", post)

	writeData(w, http.StatusCreated, "Post created", post)
}

// CreateReply adds a reply to a thread as the authenticated user.
func (h *ForumHandler) CreateReply(w http.ResponseWriter, r *http.Request) {
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

	content := strings.TrimSpace(bodyString(body, "content"))
	if content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}

	reply, err := h.forum.CreateReply(chi.URLParam(r, "id"), user.ID, content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Tell the thread author about the reply, unless they wrote it.
	if post, _, err := h.forum.GetPost(reply.PostID); err == nil && post.UserID != user.ID {
		h.hub.BroadcastTo(post.UserID, chat.NewNotificationMessage("forum_reply_created", reply))
	}

	writeData(w, http.StatusCreated, "Reply created", reply)
}
