package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Ascend_Go/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	var got []Event

	bus.Subscribe(PetLevelUp, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), Event{Version: EventSchemaVersion, Type: PetLevelUp, Payload: "fox"}))
	require.NoError(t, bus.Publish(context.Background(), Event{Version: EventSchemaVersion, Type: ItemSold}))

	require.Len(t, got, 1)
	assert.Equal(t, "fox", got[0].Payload)
}

func TestMemoryBus_HandlersRunInOrder(t *testing.T) {
	bus := NewMemoryBus()
	var order []int

	bus.Subscribe(FeedItem, func(context.Context, Event) error { order = append(order, 1); return nil })
	bus.Subscribe(FeedItem, func(context.Context, Event) error { order = append(order, 2); return nil })

	require.NoError(t, bus.Publish(context.Background(), Event{Type: FeedItem}))
	assert.Equal(t, []int{1, 2}, order)
}

func TestMemoryBus_FailingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewMemoryBus()
	ran := false

	bus.Subscribe(ActivityLogged, func(context.Context, Event) error { return errors.New("handler error") })
	bus.Subscribe(ActivityLogged, func(context.Context, Event) error { ran = true; return nil })

	err := bus.Publish(context.Background(), Event{Type: ActivityLogged})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler error")
	assert.True(t, ran)
}

func TestSubscribeAll(t *testing.T) {
	bus := NewMemoryBus()
	seen := map[Type]int{}
	SubscribeAll(bus, AllTypes, func(_ context.Context, e Event) error {
		seen[e.Type]++
		return nil
	})

	for _, typ := range AllTypes {
		require.NoError(t, bus.Publish(context.Background(), Event{Type: typ}))
	}
	assert.Len(t, seen, len(AllTypes))
}

func TestFromOutbox(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	row := domain.OutboxEvent{
		ID:        42,
		Type:      domain.EventTypeCraftingComplete,
		Payload:   json.RawMessage(`{"user_id":"user-1","recipe_id":"recipe-blade","success":true}`),
		CreatedAt: created,
	}

	e := FromOutbox(row)
	assert.Equal(t, CraftingComplete, e.Type)
	assert.Equal(t, EventSchemaVersion, e.Version)
	assert.Equal(t, "2026-03-01T11:00:00Z", e.GetMetadataValue(MetadataCreatedAt))

	id, ok := e.OutboxID()
	require.True(t, ok)
	assert.Equal(t, int64(42), id)

	payload, err := DecodePayload[domain.CraftingCompletePayload](e.Payload)
	require.NoError(t, err)
	assert.Equal(t, "user-1", payload.UserID)
	assert.True(t, payload.Success)
}

func TestOutboxID_Missing(t *testing.T) {
	_, ok := Event{}.OutboxID()
	assert.False(t, ok)

	_, ok = Event{Metadata: map[string]interface{}{MetadataOutboxID: "42"}}.OutboxID()
	assert.False(t, ok)
}

func TestDecodePayload(t *testing.T) {
	direct := domain.PetLevelUpPayload{UserID: "user-1", NewLevel: 3}

	t.Run("typed value", func(t *testing.T) {
		got, err := DecodePayload[domain.PetLevelUpPayload](direct)
		require.NoError(t, err)
		assert.Equal(t, direct, got)
	})

	t.Run("bytes", func(t *testing.T) {
		got, err := DecodePayload[domain.PetLevelUpPayload]([]byte(`{"user_id":"user-1","new_level":3}`))
		require.NoError(t, err)
		assert.Equal(t, direct, got)
	})

	t.Run("map", func(t *testing.T) {
		got, err := DecodePayload[domain.PetLevelUpPayload](map[string]interface{}{"user_id": "user-1", "new_level": 3})
		require.NoError(t, err)
		assert.Equal(t, direct, got)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := DecodePayload[domain.PetLevelUpPayload](json.RawMessage(`{"new_level":"three"}`))
		assert.Error(t, err)
	})
}
