package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/event"
)

type published struct {
	channel string
	message []byte
}

type fakeClient struct {
	mu         sync.Mutex
	messages   []published
	publishErr error
	pingErr    error
	closed     bool
}

func (c *fakeClient) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "publish", channel, message)
	if c.publishErr != nil {
		cmd.SetErr(c.publishErr)
		return cmd
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, published{channel: channel, message: message.([]byte)})
	cmd.SetVal(1)
	return cmd
}

func (c *fakeClient) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "ping")
	if c.pingErr != nil {
		cmd.SetErr(c.pingErr)
	} else {
		cmd.SetVal("PONG")
	}
	return cmd
}

func (c *fakeClient) Close() error {
	c.closed = true
	return nil
}

func (c *fakeClient) sent() []published {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]published(nil), c.messages...)
}

func relayed(t *testing.T, id int64, eventType string, payload interface{}) event.Event {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return event.FromOutbox(domain.OutboxEvent{ID: id, Type: eventType, Payload: raw, CreatedAt: time.Now()})
}

func TestPublisher_Publish(t *testing.T) {
	client := &fakeClient{}
	pub := NewPublisher(client, "")

	n, err := pub.Publish(context.Background(), "user:user-1", map[string]int{"tier": 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	sent := client.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ascend:user:user-1", sent[0].channel)
	assert.JSONEq(t, `{"tier":2}`, string(sent[0].message))
}

func TestPublisher_Errors(t *testing.T) {
	client := &fakeClient{publishErr: errors.New("connection refused"), pingErr: redis.ErrClosed}
	pub := NewPublisher(client, "test:")

	_, err := pub.Publish(context.Background(), ChannelFeed, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test:feed")

	_, err = pub.Publish(context.Background(), ChannelFeed, func() {})
	assert.Error(t, err)

	assert.ErrorIs(t, pub.Ping(context.Background()), redis.ErrClosed)
	require.NoError(t, pub.Close())
	assert.True(t, client.closed)
}

func TestForwarder_RoutesByUser(t *testing.T) {
	client := &fakeClient{}
	bus := event.NewMemoryBus()
	NewForwarder(NewPublisher(client, "")).Register(bus)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, relayed(t, 3, domain.EventTypeSeasonTierUp, domain.SeasonTierUpPayload{UserID: "user-1", NewTier: 2})))
	require.NoError(t, bus.Publish(ctx, relayed(t, 4, domain.EventTypeFeedItem, domain.FeedItemPayload{UserID: "user-2", Title: "Crafted Rare Moon Ring!"})))
	// activity rows are not pushed
	require.NoError(t, bus.Publish(ctx, relayed(t, 5, domain.EventTypeActivityLogged, domain.ActivityLoggedPayload{UserID: "user-1"})))

	sent := client.sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "ascend:user:user-1", sent[0].channel)
	assert.Equal(t, "ascend:feed", sent[1].channel)

	var msg Message
	require.NoError(t, json.Unmarshal(sent[0].message, &msg))
	assert.Equal(t, event.SeasonTierUp, msg.Type)
	assert.Equal(t, int64(3), msg.OutboxID)
	assert.JSONEq(t, `{"user_id":"user-1","season_id":"","season_name":"","old_tier":0,"new_tier":2}`, string(msg.Payload))
}

func TestForwarder_BestEffort(t *testing.T) {
	client := &fakeClient{publishErr: errors.New("redis down")}
	f := NewForwarder(NewPublisher(client, ""))
	ctx := context.Background()

	assert.NoError(t, f.HandleUserEvent(ctx, relayed(t, 1, domain.EventTypePetLevelUp, domain.PetLevelUpPayload{UserID: "user-1"})))
	assert.NoError(t, f.HandleFeedItem(ctx, relayed(t, 2, domain.EventTypeFeedItem, domain.FeedItemPayload{UserID: "user-1"})))
}

func TestForwarder_SkipsEventsWithoutUser(t *testing.T) {
	client := &fakeClient{}
	f := NewForwarder(NewPublisher(client, ""))

	evt := event.Event{Type: event.CraftingComplete, Payload: domain.CraftingCompletePayload{RecipeID: "recipe-blade"}}
	assert.NoError(t, f.HandleUserEvent(context.Background(), evt))
	assert.Empty(t, client.sent())
}
