package economy

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/testing/memstore"
)

func setupService(t *testing.T) (*memstore.Store, Service) {
	t.Helper()
	store := memstore.New()
	store.AddUser(domain.User{ID: "user-1", Username: "ada", Gold: decimal.NewFromInt(10), Level: 3})
	store.AddItem(domain.Item{ID: "ember-shard", Name: "Ember Shard", Rarity: domain.RarityCommon, IsTradable: true})
	store.AddItem(domain.Item{ID: "iron-sword", Name: "Iron Sword", Rarity: domain.RarityRare, Power: intPtr(10), Defense: intPtr(5), IsTradable: true})
	store.AddItem(domain.Item{ID: "soulbound", Name: "Soulbound Relic", Rarity: domain.RarityEpic})
	store.SetQuantity("user-1", "ember-shard", 3)
	store.SetQuantity("user-1", "soulbound", 1)
	return store, NewService(store.Economy(), store)
}

func TestGetItemPrice(t *testing.T) {
	_, svc := setupService(t)

	price, err := svc.GetItemPrice(context.Background(), "iron-sword")
	require.NoError(t, err)
	assert.Equal(t, 127, price)

	_, err = svc.GetItemPrice(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestGetPriceList_OnlyTradableCheapestFirst(t *testing.T) {
	_, svc := setupService(t)

	list, err := svc.GetPriceList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ember-shard", list[0].ItemID)
	assert.Equal(t, 20, list[0].Price)
	assert.Equal(t, "iron-sword", list[1].ItemID)
}

func TestSellItem_Success(t *testing.T) {
	store, svc := setupService(t)

	result, err := svc.SellItem(context.Background(), "user-1", "ember-shard", 2)
	require.NoError(t, err)

	assert.Equal(t, 20, result.UnitPrice)
	assert.Equal(t, 40, result.GoldGained)
	assert.Equal(t, 1, result.NewQuantity)
	assert.True(t, store.User("user-1").Gold.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 1, store.Quantity("user-1", "ember-shard"))

	sold := store.OutboxEventsOfType(domain.EventTypeItemSold)
	require.Len(t, sold, 1)
	var payload domain.ItemSoldPayload
	require.NoError(t, json.Unmarshal(sold[0].Payload, &payload))
	assert.Equal(t, 40, payload.TotalValue)
	assert.Len(t, store.OutboxEventsOfType(domain.EventTypeActivityLogged), 1)
}

func TestSellItem_SellingEverythingDeletesRow(t *testing.T) {
	store, svc := setupService(t)

	_, err := svc.SellItem(context.Background(), "user-1", "ember-shard", 3)
	require.NoError(t, err)
	assert.False(t, store.HasInventoryRow("user-1", "ember-shard"))
}

func TestSellItem_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		itemID   string
		quantity int
		wantErr  error
	}{
		{"zero quantity", "user-1", "ember-shard", 0, domain.ErrInvalidQuantity},
		{"unknown item", "user-1", "missing", 1, domain.ErrItemNotFound},
		{"not tradable", "user-1", "soulbound", 1, domain.ErrNotTradable},
		{"unknown user", "ghost", "ember-shard", 1, domain.ErrUserNotFound},
		{"not enough held", "user-1", "ember-shard", 4, domain.ErrInsufficientQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, svc := setupService(t)

			_, err := svc.SellItem(context.Background(), tt.userID, tt.itemID, tt.quantity)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, store.User("user-1").Gold.Equal(decimal.NewFromInt(10)))
			assert.Equal(t, 3, store.Quantity("user-1", "ember-shard"))
			assert.Empty(t, store.OutboxEvents())
		})
	}
}

func TestSellItem_PersistenceFailureRollsBack(t *testing.T) {
	store, svc := setupService(t)
	store.FailOn("EnqueueEvent", errors.New("connection reset"))

	_, err := svc.SellItem(context.Background(), "user-1", "ember-shard", 1)
	require.Error(t, err)
	assert.Equal(t, domain.KindTransient, domain.Kind(err))
	assert.Equal(t, 3, store.Quantity("user-1", "ember-shard"))
	assert.True(t, store.User("user-1").Gold.Equal(decimal.NewFromInt(10)))
}
