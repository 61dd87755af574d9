// Package notification turns relayed progression events into stored user
// notifications. Push delivery happens elsewhere.
package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/event"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/repository"
)

// Kinds maps event types to the notification kind they produce
var Kinds = map[event.Type]string{
	event.SeasonTierUp:        domain.NotificationSeasonTierUp,
	event.SeasonRewardClaimed: domain.NotificationRewardClaimed,
	event.PetLevelUp:          domain.NotificationPetLevelUp,
}

// Dispatcher stores a notification for every mapped event
type Dispatcher struct {
	repo repository.Notifications
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(repo repository.Notifications) *Dispatcher {
	return &Dispatcher{repo: repo}
}

// Register subscribes the dispatcher to every mapped event type
func (d *Dispatcher) Register(bus event.Bus) {
	types := make([]string, 0, len(Kinds))
	for t := range Kinds {
		bus.Subscribe(t, d.Handle)
		types = append(types, string(t))
	}
	logger.Info(LogMsgDispatcherRegistered, "types", types)
}

type recipient struct {
	UserID string `json:"user_id"`
}

// Handle stores the event payload as a notification for its user
func (d *Dispatcher) Handle(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	kind, ok := Kinds[evt.Type]
	if !ok {
		log.Debug(LogMsgUnmappedEvent, "type", evt.Type)
		return nil
	}
	eventID, ok := evt.OutboxID()
	if !ok {
		log.Warn(LogMsgMissingOutboxID, "type", evt.Type)
		return nil
	}

	payload, err := rawPayload(evt.Payload)
	if err != nil {
		log.Warn(LogMsgMalformedPayload, "event_id", eventID, "error", err)
		return nil
	}
	var to recipient
	if err := json.Unmarshal(payload, &to); err != nil {
		log.Warn(LogMsgMalformedPayload, "event_id", eventID, "error", err)
		return nil
	}
	if to.UserID == "" {
		log.Warn(LogMsgMissingUserID, "event_id", eventID, "type", evt.Type)
		return nil
	}

	inserted, err := d.repo.InsertNotification(ctx, eventID, to.UserID, kind, payload)
	if err != nil {
		return fmt.Errorf(ErrMsgInsertNotificationFailed, kind, eventID, err)
	}
	if !inserted {
		log.Debug(LogMsgDuplicateDelivery, "event_id", eventID, "kind", kind)
		return nil
	}
	log.Debug(LogMsgNotificationStored, "event_id", eventID, "user_id", to.UserID, "kind", kind)
	return nil
}

func rawPayload(p interface{}) (json.RawMessage, error) {
	switch v := p.(type) {
	case json.RawMessage:
		return v, nil
	case []byte:
		return json.RawMessage(v), nil
	default:
		return json.Marshal(v)
	}
}
