package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/clmgranada/intensivo-be/internal/models"
	"github.com/google/uuid"
)

// ChatServiceProvider defines the interface for the AI tutor chat.
type ChatServiceProvider interface {
	Exchange(userID, message string) (models.Conversation, error)
	History(userID string, limit int) ([]models.Conversation, error)
}

// ChatService persists AI tutor conversations. Reply generation is a
// placeholder until a real model integration lands; every exchange is
// stored so the dashboard can count and replay it.
type ChatService struct {
	db *sql.DB
}

// NewChatService creates a new ChatService.
func NewChatService(db *sql.DB) *ChatService {
	return &ChatService{db: db}
}

// Exchange generates a tutor reply for the message and records the turn.
func (s *ChatService) Exchange(userID, message string) (models.Conversation, error) {
	response := tutorReply(message)

	id := uuid.New().String()
	_, err := s.db.Exec(
		"INSERT INTO ai_conversations (id, user_id, message, response) VALUES (?, ?, ?, ?)",
		id, userID, message, response)
	if err != nil {
		return models.Conversation{}, err
	}

	var conv models.Conversation
	row := s.db.QueryRow(
		"SELECT id, user_id, message, response, created_at FROM ai_conversations WHERE id = ?", id)
	err = row.Scan(&conv.ID, &conv.UserID, &conv.Message, &conv.Response, &conv.CreatedAt)
	return conv, err
}

// History returns the user's most recent tutor exchanges, newest first.
func (s *ChatService) History(userID string, limit int) ([]models.Conversation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, user_id, message, response, created_at
		 FROM ai_conversations WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.Message, &conv.Response, &conv.CreatedAt); err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

// tutorReply produces the canned tutor response for a student message.
func tutorReply(message string) string {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "hola"), strings.Contains(msg, "hello"):
		return "¡Hola! Soy tu profesor virtual. ¿En qué puedo ayudarte hoy?"
	case strings.Contains(msg, "gracias"):
		return "¡De nada! Sigue practicando, lo estás haciendo muy bien."
	case strings.Contains(msg, "?"), strings.Contains(msg, "¿"):
		return "Buena pregunta. Un profesor la revisará y tendrás una respuesta completa muy pronto."
	default:
		return fmt.Sprintf("He recibido tu mensaje: %q. El profesor virtual completo estará disponible próximamente.", message)
	}
}
