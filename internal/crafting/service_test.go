package crafting

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Ascend_Go/internal/domain"
)

func decodePayload[T any](t *testing.T, evt domain.OutboxEvent) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(evt.Payload, &out))
	return out
}

func TestCraft_PreconditionsInOrder(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		recipeID string
		setup    func(s *setupState)
		wantErr  error
	}{
		{
			name:     "recipe checked before user",
			userID:   "ghost",
			recipeID: "missing",
			wantErr:  domain.ErrRecipeNotFound,
		},
		{
			name:     "unknown user",
			userID:   "ghost",
			recipeID: recipeBlade,
			wantErr:  domain.ErrUserNotFound,
		},
		{
			name:     "level checked before gold and materials",
			userID:   testUserID,
			recipeID: recipeBlade,
			setup: func(s *setupState) {
				s.user.Level = 2
				s.user.Gold = decimal.Zero
				s.shards = 0
			},
			wantErr: domain.ErrLevelTooLow,
		},
		{
			name:     "gold checked before materials",
			userID:   testUserID,
			recipeID: recipeBlade,
			setup: func(s *setupState) {
				s.user.Gold = decimal.NewFromInt(49)
				s.shards = 0
			},
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name:     "missing materials",
			userID:   testUserID,
			recipeID: recipeBlade,
			setup: func(s *setupState) {
				s.shards = 0
			},
			wantErr: domain.ErrMissingMaterials,
		},
		{
			name:     "duplicate inputs need one unit each",
			userID:   testUserID,
			recipeID: recipeTwin,
			wantErr:  domain.ErrMissingMaterials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, svc := setupCrafting(t, sequence(0))
			state := &setupState{user: store.User(testUserID), shards: 1}
			if tt.setup != nil {
				tt.setup(state)
			}
			store.AddUser(state.user)
			store.SetQuantity(testUserID, itemShard, state.shards)

			result, err := svc.Craft(context.Background(), tt.userID, tt.recipeID)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantErr)

			assert.True(t, store.User(testUserID).Gold.Equal(state.user.Gold), "no gold may be spent")
			assert.Equal(t, state.shards, store.Quantity(testUserID, itemShard), "no items may be consumed")
			assert.Empty(t, store.CraftingLogs())
			assert.Empty(t, store.OutboxEvents())
		})
	}
}

type setupState struct {
	user   domain.User
	shards int
}

func TestCraft_PreconditionErrorsAreClassified(t *testing.T) {
	_, svc := setupCrafting(t, sequence(0))

	_, err := svc.Craft(context.Background(), testUserID, "missing")
	assert.Equal(t, domain.KindNotFound, domain.Kind(err))

	_, err = svc.Craft(context.Background(), testUserID, recipeTwin)
	assert.Equal(t, domain.KindPrecondition, domain.Kind(err))
}

func TestCraft_AlwaysConsumesResources(t *testing.T) {
	tests := []struct {
		name        string
		draw        float64
		wantSuccess bool
	}{
		{"winning roll", 0.0, true},
		{"losing roll", 0.99, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, svc := setupCrafting(t, sequence(tt.draw, 0.5))

			result, err := svc.Craft(context.Background(), testUserID, recipeBlade)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Equal(t, 50, result.GoldSpent)

			assert.True(t, store.User(testUserID).Gold.Equal(decimal.NewFromInt(50)))
			assert.Equal(t, 0, store.Quantity(testUserID, itemShard))
			assert.False(t, store.HasInventoryRow(testUserID, itemShard))
			require.Len(t, store.CraftingLogs(), 1)
		})
	}
}

func TestCraft_SuccessWithRarityBoostAndVariance(t *testing.T) {
	store, svc := setupCrafting(t, sequence(0.1, 0.75, 0.25))

	result, err := svc.Craft(context.Background(), testUserID, recipeBlade)
	require.NoError(t, err)

	require.True(t, result.Success)
	assert.Equal(t, "Crafted Flame Blade!", result.Message)
	require.NotNil(t, result.RarityAchieved)
	assert.Equal(t, domain.RarityEpic, *result.RarityAchieved)
	require.NotNil(t, result.OutputItem)
	assert.Equal(t, 105, *result.OutputItem.Power)
	assert.Equal(t, 19, *result.OutputItem.Defense)
	assert.Equal(t, domain.RarityEpic, result.OutputItem.Rarity)
	assert.Equal(t, 1, store.Quantity(testUserID, itemBlade))

	logs := store.CraftingLogs()
	require.Len(t, logs, 1)
	entry := logs[0]
	assert.Equal(t, result.LogID, entry.ID)
	assert.True(t, entry.Success)
	assert.Equal(t, []domain.CraftingLogInput{{ItemID: itemShard, Name: "Ember Shard", Rarity: domain.RarityCommon}}, entry.Inputs)
	require.NotNil(t, entry.StatVariance)
	assert.InDelta(t, 1.05, entry.StatVariance.PowerFactor, 1e-9)

	complete := store.OutboxEventsOfType(domain.EventTypeCraftingComplete)
	require.Len(t, complete, 1)
	payload := decodePayload[domain.CraftingCompletePayload](t, complete[0])
	assert.True(t, payload.Success)
	assert.Equal(t, "Flame Blade", payload.RecipeName)

	feed := store.OutboxEventsOfType(domain.EventTypeFeedItem)
	require.Len(t, feed, 1)
	feedPayload := decodePayload[domain.FeedItemPayload](t, feed[0])
	assert.Equal(t, "Crafted Epic Flame Blade!", feedPayload.Title)
	assert.Equal(t, FeedRarityUpgraded, feedPayload.Description)
	assert.Equal(t, domain.FeedTypeCrafting, feedPayload.Type)

	activity := store.OutboxEventsOfType(domain.EventTypeActivityLogged)
	require.Len(t, activity, 1)
	assert.Equal(t, domain.ActivityCraftingSuccess, decodePayload[domain.ActivityLoggedPayload](t, activity[0]).Action)
}

func TestCraft_FailedRollIsNotAnError(t *testing.T) {
	store, svc := setupCrafting(t, sequence(0.5))

	result, err := svc.Craft(context.Background(), testUserID, recipeBlade)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, MsgCraftingFailed, result.Message)
	assert.Nil(t, result.OutputItem)
	assert.Nil(t, result.RarityAchieved)
	assert.NotEmpty(t, result.LogID)
	assert.Equal(t, 0, store.Quantity(testUserID, itemBlade))

	logs := store.CraftingLogs()
	require.Len(t, logs, 1)
	assert.False(t, logs[0].Success)
	assert.Nil(t, logs[0].Output)
	assert.Equal(t, 50, logs[0].GoldSpent)

	complete := store.OutboxEventsOfType(domain.EventTypeCraftingComplete)
	require.Len(t, complete, 1)
	assert.False(t, decodePayload[domain.CraftingCompletePayload](t, complete[0]).Success)
	assert.Empty(t, store.OutboxEventsOfType(domain.EventTypeFeedItem))

	activity := store.OutboxEventsOfType(domain.EventTypeActivityLogged)
	require.Len(t, activity, 1)
	assert.Equal(t, domain.ActivityCraftingFailed, decodePayload[domain.ActivityLoggedPayload](t, activity[0]).Action)
}

func TestCraft_RarityBoostCapsAtLegendary(t *testing.T) {
	store, svc := setupCrafting(t, sequence(0.99, 0.5))
	user := store.User(testUserID)
	user.Level = 10
	store.AddUser(user)
	store.SetQuantity(testUserID, itemIngot, 1)

	result, err := svc.Craft(context.Background(), testUserID, recipeCrown)
	require.NoError(t, err)

	require.True(t, result.Success, "a certain recipe succeeds for any draw")
	assert.Equal(t, domain.RarityLegendary, *result.RarityAchieved)
	assert.Equal(t, 40, *result.OutputItem.Defense)
	assert.Nil(t, result.OutputItem.Power)

	feed := store.OutboxEventsOfType(domain.EventTypeFeedItem)
	require.Len(t, feed, 1)
	assert.Empty(t, decodePayload[domain.FeedItemPayload](t, feed[0]).Description)
}

func TestCraft_DuplicateInputsConsumeEachUnit(t *testing.T) {
	store, svc := setupCrafting(t, sequence(0))
	store.SetQuantity(testUserID, itemShard, 3)

	result, err := svc.Craft(context.Background(), testUserID, recipeTwin)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, store.Quantity(testUserID, itemShard))
	assert.Equal(t, 1, store.Quantity(testUserID, itemIngot))
	assert.Len(t, store.CraftingLogs()[0].Inputs, 2)
}

func TestCraft_PersistenceFailureRollsBackEverything(t *testing.T) {
	for _, op := range []string{"InsertCraftingLog", "EnqueueEvent", "AddInventoryItem", "Commit"} {
		t.Run(op, func(t *testing.T) {
			store, svc := setupCrafting(t, sequence(0))
			store.FailOn(op, errors.New("connection reset"))

			result, err := svc.Craft(context.Background(), testUserID, recipeBlade)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, domain.KindTransient, domain.Kind(err))

			store.FailOn(op, nil)
			assert.True(t, store.User(testUserID).Gold.Equal(decimal.NewFromInt(100)))
			assert.Equal(t, 1, store.Quantity(testUserID, itemShard))
			assert.Empty(t, store.CraftingLogs())
			assert.Empty(t, store.OutboxEvents())
		})
	}
}

func TestCraft_DanglingOutputMakesRecipeInvalid(t *testing.T) {
	store, svc := setupCrafting(t, sequence(0))
	store.AddRecipe(domain.CraftingRecipe{ID: "broken", Name: "Broken", InputItemIDs: []string{itemShard}, OutputItemID: "nope", SuccessRate: 100})

	_, err := svc.Craft(context.Background(), testUserID, "broken")
	assert.ErrorIs(t, err, domain.ErrInvalidRecipe)
	assert.Equal(t, 1, store.Quantity(testUserID, itemShard))
}

func TestGetAvailableRecipes(t *testing.T) {
	_, svc := setupCrafting(t, nil)

	recipes, err := svc.GetAvailableRecipes(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, recipeTwin, recipes[0].ID)
	assert.Equal(t, recipeBlade, recipes[1].ID)

	_, err = svc.GetAvailableRecipes(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetCraftingHistory_NewestFirst(t *testing.T) {
	store, svc := setupCrafting(t, sequence(0.99))
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for i := 0; i < 3; i++ {
		store.SetQuantity(testUserID, itemShard, 1)
		_, err := svc.Craft(context.Background(), testUserID, recipeBlade)
		require.NoError(t, err)
		user := store.User(testUserID)
		user.Gold = decimal.NewFromInt(100)
		store.AddUser(user)
	}

	history, err := svc.GetCraftingHistory(context.Background(), testUserID, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.True(t, history[0].CraftedAt.After(history[1].CraftedAt))
	assert.True(t, history[1].CraftedAt.After(history[2].CraftedAt))

	limited, err := svc.GetCraftingHistory(context.Background(), testUserID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, history[0].ID, limited[0].ID)
}
