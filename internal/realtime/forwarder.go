package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/osse101/Ascend_Go/internal/event"
	"github.com/osse101/Ascend_Go/internal/logger"
)

// Message is what websocket clients receive
type Message struct {
	Type     event.Type      `json:"type"`
	OutboxID int64           `json:"outbox_id,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

// userEvents go to the owning user's channel
var userEvents = []event.Type{
	event.CraftingComplete,
	event.SeasonTierUp,
	event.SeasonRewardClaimed,
	event.PetLevelUp,
}

// Forwarder relays bus events to Redis. Delivery is best effort: publish
// failures are logged and never fail the bus delivery.
type Forwarder struct {
	pub *Publisher
}

// NewForwarder creates a new Forwarder
func NewForwarder(pub *Publisher) *Forwarder {
	return &Forwarder{pub: pub}
}

// Register subscribes the forwarder to the bus
func (f *Forwarder) Register(bus event.Bus) {
	event.SubscribeAll(bus, userEvents, f.HandleUserEvent)
	bus.Subscribe(event.FeedItem, f.HandleFeedItem)
	logger.Info(LogMsgForwarderRegistered, "user_events", len(userEvents))
}

// HandleUserEvent publishes the event on the user's channel
func (f *Forwarder) HandleUserEvent(ctx context.Context, evt event.Event) error {
	msg, err := toMessage(evt)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgForwardFailed, "type", evt.Type, "error", err)
		return nil
	}

	var to struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(msg.Payload, &to); err != nil || to.UserID == "" {
		logger.FromContext(ctx).Debug(LogMsgNoRecipient, "type", evt.Type)
		return nil
	}

	f.forward(ctx, fmt.Sprintf(ChannelUserFmt, to.UserID), msg)
	return nil
}

// HandleFeedItem publishes feed entries on the shared feed channel
func (f *Forwarder) HandleFeedItem(ctx context.Context, evt event.Event) error {
	msg, err := toMessage(evt)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgForwardFailed, "type", evt.Type, "error", err)
		return nil
	}
	f.forward(ctx, ChannelFeed, msg)
	return nil
}

func (f *Forwarder) forward(ctx context.Context, channel string, msg Message) {
	log := logger.FromContext(ctx)
	receivers, err := f.pub.Publish(ctx, channel, msg)
	if err != nil {
		log.Warn(LogMsgForwardFailed, "type", msg.Type, "channel", channel, "error", err)
		return
	}
	log.Debug(LogMsgForwarded, "type", msg.Type, "channel", channel, "receivers", receivers)
}

func toMessage(evt event.Event) (Message, error) {
	msg := Message{Type: evt.Type}
	msg.OutboxID, _ = evt.OutboxID()

	switch p := evt.Payload.(type) {
	case json.RawMessage:
		msg.Payload = p
	case []byte:
		msg.Payload = p
	default:
		data, err := json.Marshal(p)
		if err != nil {
			return msg, err
		}
		msg.Payload = data
	}
	return msg, nil
}
