package season

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/reward"
	"github.com/osse101/Ascend_Go/internal/testing/memstore"
)

const (
	testUserID    = "user-1"
	premiumUserID = "user-premium"
	seasonID      = "season-1"
	itemGem       = "moon-gem"
	petFox        = "ember-fox"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testTiers() []domain.SeasonTier {
	return []domain.SeasonTier{
		{SeasonID: seasonID, Tier: 1, XPRequired: 100, FreeReward: domain.GoldReward{Amount: 50}, PremiumReward: domain.DiamondsReward{Amount: 5}},
		{SeasonID: seasonID, Tier: 2, XPRequired: 250, FreeReward: domain.ItemReward{ItemID: itemGem, Amount: 2}},
		{SeasonID: seasonID, Tier: 3, XPRequired: 500, PremiumReward: domain.CompanionReward{CompanionID: petFox}},
		{SeasonID: seasonID, Tier: 4, XPRequired: 1000, FreeReward: domain.UnknownReward{RawType: "mystery", Raw: json.RawMessage(`{"type":"mystery"}`)}},
	}
}

func setupSeason(t *testing.T) (*memstore.Store, *service) {
	t.Helper()
	store := memstore.New()

	store.AddUser(domain.User{ID: testUserID, Username: "ada", Gold: decimal.NewFromInt(10)})
	store.AddUser(domain.User{ID: premiumUserID, Username: "pia", Gold: decimal.NewFromInt(10), IsPremium: true})
	store.AddItem(domain.Item{ID: itemGem, Name: "Moon Gem", Rarity: domain.RarityEpic})
	store.AddPet(domain.Pet{ID: petFox, Name: "Ember Fox", Type: domain.PetTypeCompanion, Rarity: domain.RarityRare})
	store.AddSeason(domain.Season{
		ID:           seasonID,
		Name:         "Dawn",
		SeasonNumber: 1,
		StartsAt:     testNow.Add(-24 * time.Hour),
		EndsAt:       testNow.Add(30 * 24 * time.Hour),
		IsActive:     true,
	}, testTiers())

	svc := NewService(store.Season(), store, reward.NewDispatcher()).(*service)
	svc.now = func() time.Time { return testNow }
	return store, svc
}

// withProgress seeds progress at xp with the tier derived from it
func withProgress(t *testing.T, store *memstore.Store, userID string, xp int) {
	t.Helper()
	store.AddProgress(domain.UserSeasonProgress{
		UserID:         userID,
		SeasonID:       seasonID,
		XP:             xp,
		CurrentTier:    DeriveTier(testTiers(), xp),
		ClaimedFree:    []int{},
		ClaimedPremium: []int{},
	})
}

func decode[T any](t *testing.T, evt domain.OutboxEvent) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(evt.Payload, &out))
	return out
}
