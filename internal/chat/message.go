package chat

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewErrorMessage encodes an error frame for a client.
func NewErrorMessage(message string) []byte {
	return encode(Message{Action: "error", Payload: map[string]string{"message": message}})
}

// NewTutorReplyMessage encodes an AI tutor reply frame.
func NewTutorReplyMessage(payload interface{}) []byte {
	return encode(Message{Action: "tutor_reply", Payload: payload})
}

// NewNotificationMessage encodes a dashboard notification frame.
func NewNotificationMessage(event string, payload interface{}) []byte {
	return encode(Message{Action: event, Payload: payload})
}

func encode(msg Message) []byte {
	data, err := json.Marshal(msg)
	if err != nil {
		return []byte(`{"action":"error","payload":{"message":"encoding failure"}}`)
	}
	return data
}
