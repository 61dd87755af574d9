// Package feed persists social feed entries and activity log rows relayed
// from the outbox.
package feed

import (
	"context"
	"fmt"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/event"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/repository"
)

// Recorder writes feed.item and activity.logged events to the feed tables
type Recorder struct {
	repo repository.Feed
}

// NewRecorder creates a new Recorder
func NewRecorder(repo repository.Feed) *Recorder {
	return &Recorder{repo: repo}
}

// Register subscribes the recorder to the bus
func (r *Recorder) Register(bus event.Bus) {
	bus.Subscribe(event.FeedItem, r.HandleFeedItem)
	bus.Subscribe(event.ActivityLogged, r.HandleActivity)
	logger.Info(LogMsgRecorderRegistered)
}

// HandleFeedItem stores one feed entry. Redelivered events are ignored.
func (r *Recorder) HandleFeedItem(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	eventID, ok := evt.OutboxID()
	if !ok {
		log.Warn(LogMsgMissingOutboxID, "type", evt.Type)
		return nil
	}
	item, err := event.DecodePayload[domain.FeedItemPayload](evt.Payload)
	if err != nil {
		log.Warn(LogMsgMalformedPayload, "event_id", eventID, "error", err)
		return nil
	}

	inserted, err := r.repo.InsertFeedItem(ctx, eventID, item)
	if err != nil {
		return fmt.Errorf(ErrMsgInsertFeedItemFailed, eventID, err)
	}
	if !inserted {
		log.Debug(LogMsgDuplicateDelivery, "event_id", eventID, "type", evt.Type)
		return nil
	}
	log.Debug(LogMsgFeedItemStored, "event_id", eventID, "user_id", item.UserID, "feed_type", item.Type)
	return nil
}

// HandleActivity stores one activity row. Redelivered events are ignored.
func (r *Recorder) HandleActivity(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	eventID, ok := evt.OutboxID()
	if !ok {
		log.Warn(LogMsgMissingOutboxID, "type", evt.Type)
		return nil
	}
	activity, err := event.DecodePayload[domain.ActivityLoggedPayload](evt.Payload)
	if err != nil {
		log.Warn(LogMsgMalformedPayload, "event_id", eventID, "error", err)
		return nil
	}

	inserted, err := r.repo.InsertActivity(ctx, eventID, activity)
	if err != nil {
		return fmt.Errorf(ErrMsgInsertActivityFailed, eventID, err)
	}
	if !inserted {
		log.Debug(LogMsgDuplicateDelivery, "event_id", eventID, "type", evt.Type)
		return nil
	}
	log.Debug(LogMsgActivityStored, "event_id", eventID, "user_id", activity.UserID, "action", activity.Action)
	return nil
}
