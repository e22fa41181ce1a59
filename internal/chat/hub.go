package chat

import "github.com/rs/zerolog/log"

// Hub maintains the set of connected dashboard clients and routes
// messages to them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages for global broadcast (forum activity and such).
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// A map of user IDs to the set of connections they hold. A student
	// with two browser tabs open gets both.
	byUser map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		byUser:     make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			if h.byUser[client.UserID] == nil {
				h.byUser[client.UserID] = make(map[*Client]bool)
			}
			h.byUser[client.UserID][client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.dropFromUser(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
					h.dropFromUser(client)
				}
			}
		}
	}
}

// BroadcastTo sends a message to every connection held by a user.
func (h *Hub) BroadcastTo(userID string, message []byte) {
	for client := range h.byUser[userID] {
		select {
		case client.Send <- message:
		default:
			close(client.Send)
			delete(h.clients, client)
			delete(h.byUser[userID], client)
		}
	}
}

func (h *Hub) dropFromUser(client *Client) {
	if conns, ok := h.byUser[client.UserID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.byUser, client.UserID)
		}
	}
}
