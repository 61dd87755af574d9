package event

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Ascend_Go/internal/domain"
)

// flakyBus records every publish and fails the calls failWhen selects
type flakyBus struct {
	mu       sync.Mutex
	calls    []time.Time
	events   []Event
	failWhen func(call int) bool
	delay    time.Duration
}

func (b *flakyBus) Publish(_ context.Context, e Event) error {
	b.mu.Lock()
	b.calls = append(b.calls, time.Now())
	b.events = append(b.events, e)
	n := len(b.calls)
	b.mu.Unlock()

	if b.delay > 0 {
		time.Sleep(b.delay)
	}
	if b.failWhen != nil && b.failWhen(n) {
		return errors.New("subscriber unavailable")
	}
	return nil
}

func (b *flakyBus) Subscribe(Type, Handler) {}

func (b *flakyBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func (b *flakyBus) times() []time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]time.Time(nil), b.calls...)
}

func outboxEvent(id int64) Event {
	return FromOutbox(domain.OutboxEvent{
		ID:        id,
		Type:      domain.EventTypeSeasonTierUp,
		Payload:   json.RawMessage(`{"user_id":"user-1","new_tier":2}`),
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
}

func deadLetterPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "deadletter.jsonl")
}

func TestResilientPublisher_DeliversFirstTime(t *testing.T) {
	path := deadLetterPath(t)
	bus := &flakyBus{}

	rp, err := NewResilientPublisher(bus, 3, 50*time.Millisecond, path)
	require.NoError(t, err)

	rp.PublishWithRetry(context.Background(), outboxEvent(1))
	require.NoError(t, rp.Shutdown(context.Background()))

	assert.Equal(t, 1, bus.count())
	entries, err := ReadDeadLetters(path)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResilientPublisher_RetriesUntilDelivered(t *testing.T) {
	path := deadLetterPath(t)
	bus := &flakyBus{failWhen: func(call int) bool { return call == 1 }}

	rp, err := NewResilientPublisher(bus, 3, 50*time.Millisecond, path)
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	rp.PublishWithRetry(context.Background(), outboxEvent(2))

	assert.Eventually(t, func() bool { return bus.count() == 2 }, time.Second, 10*time.Millisecond)

	entries, err := ReadDeadLetters(path)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResilientPublisher_DeadLettersAfterMaxRetries(t *testing.T) {
	path := deadLetterPath(t)
	bus := &flakyBus{failWhen: func(int) bool { return true }}

	rp, err := NewResilientPublisher(bus, 3, 20*time.Millisecond, path)
	require.NoError(t, err)

	rp.PublishWithRetry(context.Background(), outboxEvent(7))

	// initial publish plus three retries
	assert.Eventually(t, func() bool { return bus.count() == 4 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, rp.Shutdown(context.Background()))

	entries, err := ReadDeadLetters(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, DeadLetterSchemaVersion, entry.SchemaVersion)
	assert.Equal(t, SeasonTierUp, entry.Event.Type)
	assert.Equal(t, 3, entry.Attempts)
	assert.Equal(t, "subscriber unavailable", entry.LastError)

	id, ok := entry.Event.OutboxID()
	require.True(t, ok)
	assert.Equal(t, int64(7), id)

	payload, err := DecodePayload[domain.SeasonTierUpPayload](entry.Event.Payload)
	require.NoError(t, err)
	assert.Equal(t, "user-1", payload.UserID)
}

func TestResilientPublisher_BackoffDoubles(t *testing.T) {
	bus := &flakyBus{failWhen: func(call int) bool { return call < 4 }}
	base := 100 * time.Millisecond

	rp, err := NewResilientPublisher(bus, 5, base, deadLetterPath(t))
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	rp.PublishWithRetry(context.Background(), outboxEvent(3))
	require.Eventually(t, func() bool { return bus.count() >= 3 }, 2*time.Second, 10*time.Millisecond)

	calls := bus.times()
	assert.InDelta(t, base.Milliseconds(), calls[1].Sub(calls[0]).Milliseconds(), 50)
	assert.InDelta(t, (2 * base).Milliseconds(), calls[2].Sub(calls[1]).Milliseconds(), 50)
}

func TestResilientPublisher_FullQueueDeadLettersImmediately(t *testing.T) {
	path := deadLetterPath(t)
	bus := &flakyBus{failWhen: func(int) bool { return true }}
	dl, err := NewDeadLetterWriter(path)
	require.NoError(t, err)

	// no worker draining the queue
	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, 2),
		maxRetries: 3,
		retryDelay: time.Hour,
		shutdown:   make(chan struct{}),
		deadLetter: dl,
	}

	for i := int64(1); i <= 5; i++ {
		rp.PublishWithRetry(context.Background(), outboxEvent(i))
	}
	assert.Len(t, rp.retryQueue, 2)

	entries, err := ReadDeadLetters(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, entry := range entries {
		assert.Equal(t, 1, entry.Attempts)
	}
	require.NoError(t, dl.Close())
}

func TestResilientPublisher_ShutdownDrainsQueue(t *testing.T) {
	path := deadLetterPath(t)
	// the first three publishes fail, the shutdown drain succeeds
	bus := &flakyBus{failWhen: func(call int) bool { return call <= 3 }}

	rp, err := NewResilientPublisher(bus, 5, time.Hour, path)
	require.NoError(t, err)

	for i := int64(1); i <= 3; i++ {
		rp.PublishWithRetry(context.Background(), outboxEvent(i))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, rp.Shutdown(ctx))

	assert.Equal(t, 6, bus.count())
	entries, err := ReadDeadLetters(path)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResilientPublisher_PublishAfterShutdown(t *testing.T) {
	path := deadLetterPath(t)
	bus := &flakyBus{failWhen: func(int) bool { return true }}

	rp, err := NewResilientPublisher(bus, 3, time.Millisecond, path)
	require.NoError(t, err)
	rp.shutdownOnce.Do(func() { close(rp.shutdown) })
	rp.wg.Wait()

	assert.NoError(t, rp.Publish(context.Background(), outboxEvent(9)))
	require.NoError(t, rp.Shutdown(context.Background()))

	entries, err := ReadDeadLetters(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Attempts)
}

func TestResilientPublisher_ConcurrentPublishes(t *testing.T) {
	bus := &flakyBus{}
	rp, err := NewResilientPublisher(bus, 3, 10*time.Millisecond, deadLetterPath(t))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				rp.PublishWithRetry(context.Background(), outboxEvent(int64(g*10+i)))
			}
		}(g)
	}
	wg.Wait()
	require.NoError(t, rp.Shutdown(context.Background()))

	assert.Equal(t, 40, bus.count())
}

func TestCalculateRetryDelay(t *testing.T) {
	base := 2 * time.Second
	assert.Equal(t, 2*time.Second, CalculateRetryDelay(base, 1))
	assert.Equal(t, 4*time.Second, CalculateRetryDelay(base, 2))
	assert.Equal(t, 32*time.Second, CalculateRetryDelay(base, 5))
	assert.Equal(t, 2*time.Second, CalculateRetryDelay(base, 0))
}
