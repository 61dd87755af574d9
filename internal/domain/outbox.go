package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// OutboxEvent is a side-channel event written in the same transaction as the
// economic state change that produced it. A relay publishes it afterwards.
type OutboxEvent struct {
	ID           int64           `json:"id"`
	Type         string          `json:"type"`
	Payload      json.RawMessage `json:"payload"`
	CreatedAt    time.Time       `json:"created_at"`
	DispatchedAt *time.Time      `json:"dispatched_at,omitempty"`
}

// NewOutboxEvent marshals payload into an undispatched outbox row.
func NewOutboxEvent(eventType string, payload interface{}) (OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return OutboxEvent{}, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}
	return OutboxEvent{Type: eventType, Payload: data}, nil
}
