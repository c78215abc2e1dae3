package amqp

import (
	"encoding/json"
	"time"
)

// ContactSubmittedMessage announces a contact message waiting in the outbox.
// It carries only the id; the worker reads the message from the database.
type ContactSubmittedMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewContactSubmittedMessage(id int64) *ContactSubmittedMessage {
	return &ContactSubmittedMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *ContactSubmittedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ContactSubmittedMessageFromJSON(data []byte) (*ContactSubmittedMessage, error) {
	var msg ContactSubmittedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
