package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/Ascend_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// Metadata keys
const (
	MetadataOutboxID  = "outbox_id"
	MetadataCreatedAt = "created_at"
)

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// OutboxID returns the id of the outbox row the event was relayed from.
// Dead-lettered events come back with the id decoded as float64.
func (e Event) OutboxID() (int64, bool) {
	switch v := e.GetMetadataValue(MetadataOutboxID).(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// Event types relayed from the outbox
const (
	CraftingComplete    Type = domain.EventTypeCraftingComplete
	ItemSold            Type = domain.EventTypeItemSold
	FeedItem            Type = domain.EventTypeFeedItem
	ActivityLogged      Type = domain.EventTypeActivityLogged
	SeasonTierUp        Type = domain.EventTypeSeasonTierUp
	SeasonRewardClaimed Type = domain.EventTypeSeasonRewardClaimed
	PetLevelUp          Type = domain.EventTypePetLevelUp
)

// AllTypes lists every event type the services enqueue
var AllTypes = []Type{
	CraftingComplete, ItemSold, FeedItem, ActivityLogged,
	SeasonTierUp, SeasonRewardClaimed, PetLevelUp,
}

// FromOutbox converts a stored outbox row into a bus event. The payload stays
// raw JSON; handlers decode it with DecodePayload.
func FromOutbox(row domain.OutboxEvent) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(row.Type),
		Payload: row.Payload,
		Metadata: map[string]interface{}{
			MetadataOutboxID:  row.ID,
			MetadataCreatedAt: row.CreatedAt.UTC().Format(time.RFC3339Nano),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every handler subscribed to the event type, in subscription
// order. All handlers run even when one fails.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll subscribes a handler to every type in types
func SubscribeAll(bus Bus, types []Type, handler Handler) {
	for _, t := range types {
		bus.Subscribe(t, handler)
	}
}
