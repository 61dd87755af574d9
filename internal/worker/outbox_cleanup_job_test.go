package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Ascend_Go/internal/testing/memstore"
)

func dispatchAll(t *testing.T, store *memstore.Store) {
	t.Helper()
	ctx := context.Background()
	tx, err := store.Outbox().BeginTx(ctx)
	require.NoError(t, err)
	evts, err := tx.LockPending(ctx, 100)
	require.NoError(t, err)
	ids := make([]int64, 0, len(evts))
	for _, evt := range evts {
		ids = append(ids, evt.ID)
	}
	require.NoError(t, tx.MarkDispatched(ctx, ids))
	require.NoError(t, tx.Commit(ctx))
}

func TestOutboxCleanupJob_PrunesOnlyDispatched(t *testing.T) {
	store := memstore.New()
	enqueue(t, store, "test.a", map[string]int{"n": 1})
	enqueue(t, store, "test.b", map[string]int{"n": 2})
	dispatchAll(t, store)
	enqueue(t, store, "test.c", map[string]int{"n": 3})

	job := NewOutboxCleanupJob(store.Outbox(), 0)
	require.NoError(t, job.Process(context.Background()))

	remaining := store.OutboxEvents()
	require.Len(t, remaining, 1)
	assert.Equal(t, "test.c", remaining[0].Type)
	assert.Nil(t, remaining[0].DispatchedAt)
}

func TestOutboxCleanupJob_KeepsRecentWithinRetention(t *testing.T) {
	store := memstore.New()
	enqueue(t, store, "test.a", map[string]int{"n": 1})
	dispatchAll(t, store)

	job := NewOutboxCleanupJob(store.Outbox(), 24*time.Hour)
	require.NoError(t, job.Process(context.Background()))

	assert.Len(t, store.OutboxEvents(), 1)
}

func TestOutboxCleanupJob_RepositoryError(t *testing.T) {
	store := memstore.New()
	boom := errors.New("db down")
	store.FailOn("DeleteDispatchedBefore", boom)

	err := NewOutboxCleanupJob(store.Outbox(), 0).Process(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
