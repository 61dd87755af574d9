package metrics

import (
	"context"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/event"
	"github.com/osse101/Ascend_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to every relayed event type
func (e *EventMetricsCollector) Register(bus event.Bus) {
	event.SubscribeAll(bus, event.AllTypes, e.HandleEvent)
	logger.Info(LogMsgCollectorRegistered, "types", len(event.AllTypes))
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	if err := e.record(evt); err != nil {
		log.Debug(LogMsgMalformedPayload, "type", evt.Type, "error", err)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

func (e *EventMetricsCollector) record(evt event.Event) error {
	switch evt.Type {
	case event.CraftingComplete:
		p, err := event.DecodePayload[domain.CraftingCompletePayload](evt.Payload)
		if err != nil {
			return err
		}
		outcome, rarity := OutcomeFailure, RarityNone
		if p.Success {
			outcome = OutcomeSuccess
		}
		if p.Rarity != nil {
			rarity = string(*p.Rarity)
		}
		CraftsTotal.WithLabelValues(outcome, rarity).Inc()
		CraftGoldSpent.Add(float64(p.GoldSpent))

	case event.ItemSold:
		p, err := event.DecodePayload[domain.ItemSoldPayload](evt.Payload)
		if err != nil {
			return err
		}
		ItemsSold.WithLabelValues(p.ItemID).Add(float64(p.Quantity))
		GoldEarned.Add(float64(p.TotalValue))

	case event.SeasonTierUp:
		p, err := event.DecodePayload[domain.SeasonTierUpPayload](evt.Payload)
		if err != nil {
			return err
		}
		if gained := p.NewTier - p.OldTier; gained > 0 {
			SeasonTierUps.Add(float64(gained))
		}

	case event.SeasonRewardClaimed:
		p, err := event.DecodePayload[domain.SeasonRewardClaimedPayload](evt.Payload)
		if err != nil {
			return err
		}
		RewardsClaimed.WithLabelValues(string(p.Track), string(p.RewardType)).Inc()

	case event.PetLevelUp:
		p, err := event.DecodePayload[domain.PetLevelUpPayload](evt.Payload)
		if err != nil {
			return err
		}
		PetLevelUps.WithLabelValues(p.PetID).Inc()

	case event.FeedItem:
		p, err := event.DecodePayload[domain.FeedItemPayload](evt.Payload)
		if err != nil {
			return err
		}
		FeedItemsEmitted.WithLabelValues(p.Type).Inc()
	}
	return nil
}
