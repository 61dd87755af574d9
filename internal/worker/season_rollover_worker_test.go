package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/reward"
	"github.com/osse101/Ascend_Go/internal/season"
	"github.com/osse101/Ascend_Go/internal/testing/memstore"
)

func seasonStore(endsIn time.Duration) *memstore.Store {
	store := memstore.New()
	now := time.Now()
	store.AddSeason(domain.Season{
		ID:           "season-1",
		Name:         "Dawn",
		SeasonNumber: 1,
		StartsAt:     now.Add(-time.Hour),
		EndsAt:       now.Add(endsIn),
		IsActive:     true,
	}, []domain.SeasonTier{
		{SeasonID: "season-1", Tier: 1, XPRequired: 100, FreeReward: domain.GoldReward{Amount: 50}},
		{SeasonID: "season-1", Tier: 2, XPRequired: 250},
	})
	return store
}

func activeSeasons(store *memstore.Store) []domain.Season {
	var out []domain.Season
	for _, s := range store.SeasonsList() {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out
}

func shutdown(t *testing.T, w *SeasonRolloverWorker) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Shutdown(ctx))
}

func TestSeasonRollover_ClosesEndedSeason(t *testing.T) {
	store := seasonStore(-time.Minute)
	seasons := season.NewService(store.Season(), store, reward.NewDispatcher())
	w := NewSeasonRolloverWorker(seasons, store, false)

	require.NoError(t, w.Start(context.Background()))
	assert.Eventually(t, func() bool { return len(activeSeasons(store)) == 0 }, time.Second, 5*time.Millisecond)

	assert.Len(t, store.SeasonsList(), 1)
	shutdown(t, w)
}

func TestSeasonRollover_AutoStartCopiesTiers(t *testing.T) {
	store := seasonStore(30 * time.Millisecond)
	seasons := season.NewService(store.Season(), store, reward.NewDispatcher())
	w := NewSeasonRolloverWorker(seasons, store, true)

	require.NoError(t, w.Start(context.Background()))
	assert.Equal(t, 1, w.pendingTimers())

	require.Eventually(t, func() bool { return len(store.SeasonsList()) == 2 }, 2*time.Second, 5*time.Millisecond)

	active := activeSeasons(store)
	require.Len(t, active, 1)
	next := active[0]
	assert.Equal(t, 2, next.SeasonNumber)
	assert.Equal(t, "Season 2", next.Name)
	assert.InDelta(t, time.Hour.Seconds(), next.EndsAt.Sub(next.StartsAt).Seconds(), 1)

	tiers, err := store.GetSeasonTiers(context.Background(), next.ID)
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, next.ID, tiers[0].SeasonID)
	assert.Equal(t, domain.GoldReward{Amount: 50}, tiers[0].FreeReward)

	// the new season's end is scheduled and cancelled by shutdown
	assert.Eventually(t, func() bool { return w.pendingTimers() == 1 }, time.Second, 5*time.Millisecond)
	shutdown(t, w)
	assert.Zero(t, w.pendingTimers())
}

func TestSeasonRollover_NoActiveSeason(t *testing.T) {
	store := memstore.New()
	seasons := season.NewService(store.Season(), store, reward.NewDispatcher())
	w := NewSeasonRolloverWorker(seasons, store, true)

	require.NoError(t, w.Start(context.Background()))
	assert.Zero(t, w.pendingTimers())
	shutdown(t, w)
}

func TestSeasonRollover_ShutdownCancelsPendingEnd(t *testing.T) {
	store := seasonStore(50 * time.Millisecond)
	seasons := season.NewService(store.Season(), store, reward.NewDispatcher())
	w := NewSeasonRolloverWorker(seasons, store, false)

	require.NoError(t, w.Start(context.Background()))
	shutdown(t, w)

	time.Sleep(100 * time.Millisecond)
	assert.Len(t, activeSeasons(store), 1)
}

func TestSeasonRollover_SkipsSeasonAlreadyReplaced(t *testing.T) {
	ctx := context.Background()
	store := seasonStore(time.Hour)
	seasons := season.NewService(store.Season(), store, reward.NewDispatcher())
	w := NewSeasonRolloverWorker(seasons, store, true)

	ended, err := seasons.GetCurrentSeason(ctx)
	require.NoError(t, err)

	manual, err := seasons.StartSeason(ctx, season.StartSeasonInput{
		Name:  "Manual",
		Tiers: []domain.SeasonTier{{Tier: 1, XPRequired: 10}},
	})
	require.NoError(t, err)

	require.NoError(t, w.rollover(ctx, ended))

	current, err := seasons.GetCurrentSeason(ctx)
	require.NoError(t, err)
	assert.Equal(t, manual.ID, current.ID, "the running season is left alone")
	assert.Len(t, store.SeasonsList(), 2, "no season is auto-started")
	assert.Zero(t, w.pendingTimers())
	shutdown(t, w)
}
