package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/clmgranada/intensivo-be/internal/auth"
	"github.com/clmgranada/intensivo-be/internal/chat"
	"github.com/clmgranada/intensivo-be/internal/services"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ChatHandler serves the AI tutor: a websocket for live exchanges and a
// REST endpoint for conversation history.
type ChatHandler struct {
	hub    *chat.Hub
	chats  services.ChatServiceProvider
	tokens *auth.TokenService
	users  services.UserServiceProvider
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(hub *chat.Hub, chats services.ChatServiceProvider, tokens *auth.TokenService, users services.UserServiceProvider) *ChatHandler {
	return &ChatHandler{hub: hub, chats: chats, tokens: tokens, users: users}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS already restricts the REST surface; the websocket carries
		// its own token check below.
		return true
	},
}

// Serve upgrades the connection after authenticating the token passed as
// a query parameter (browsers cannot set headers on websocket dials).
func (h *ChatHandler) Serve(w http.ResponseWriter, r *http.Request) {
	userID, err := h.tokens.Verify(r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	user, err := h.users.GetUserByID(userID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}
	if !user.IsActive {
		writeError(w, http.StatusForbidden, "Account deactivated")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := chat.NewClient(h.hub, conn, user.ID)
	h.hub.Register <- client

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		client.WritePump()
	}()
	go func() {
		defer wg.Done()
		client.ReadPump(h.handleIncomingMessage)
	}()

	// Cleanup on disconnect.
	go func() {
		wg.Wait()
		h.hub.Unregister <- client
	}()
}

// handleIncomingMessage processes frames received from a dashboard client.
func (h *ChatHandler) handleIncomingMessage(client *chat.Client, message []byte) {
	var msg chat.Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Error().Err(err).Bytes("message", message).Msg("Error decoding websocket message")
		client.Send <- chat.NewErrorMessage("Invalid message")
		return
	}

	switch msg.Action {
	case "tutor_message":
		payload, ok := msg.Payload.(map[string]interface{})
		if !ok {
			client.Send <- chat.NewErrorMessage("Invalid payload for tutor message")
			return
		}
		text, ok := payload["message"].(string)
		if !ok || strings.TrimSpace(text) == "" {
			client.Send <- chat.NewErrorMessage("Empty tutor message")
			return
		}

		conv, err := h.chats.Exchange(client.UserID, text)
		if err != nil {
			log.Error().Err(err).Str("user_id", client.UserID).Msg("Failed to record tutor exchange")
			client.Send <- chat.NewErrorMessage("Failed to process message")
			return
		}
		client.Send <- chat.NewTutorReplyMessage(conv)

	default:
		log.Warn().Str("action", msg.Action).Msg("Unknown websocket action received")
		client.Send <- chat.NewErrorMessage("Unknown action: " + msg.Action)
	}
}

// History returns the authenticated user's recent tutor exchanges.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	history, err := h.chats.History(user.ID, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to load chat history")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusOK, "", history)
}
