package crafting

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/testing/memstore"
)

const (
	testUserID  = "user-1"
	itemShard   = "ember-shard"
	itemIngot   = "iron-ingot"
	itemBlade   = "flame-blade"
	itemCrown   = "sun-crown"
	recipeBlade = "recipe-flame-blade"
	recipeCrown = "recipe-sun-crown"
	recipeTwin  = "recipe-twin-shard"
)

func intPtr(v int) *int { return &v }

// sequence returns a deterministic rnd that yields values in order and then repeats the last one
func sequence(values ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

func setupCrafting(t *testing.T, rnd func() float64) (*memstore.Store, *service) {
	t.Helper()
	store := memstore.New()

	store.AddUser(domain.User{ID: testUserID, Username: "ada", Gold: decimal.NewFromInt(100), Level: 5})

	store.AddItem(domain.Item{ID: itemShard, Name: "Ember Shard", Rarity: domain.RarityCommon})
	store.AddItem(domain.Item{ID: itemIngot, Name: "Iron Ingot", Rarity: domain.RarityUncommon})
	store.AddItem(domain.Item{ID: itemBlade, Name: "Flame Blade", Rarity: domain.RarityRare, Power: intPtr(100), Defense: intPtr(20)})
	store.AddItem(domain.Item{ID: itemCrown, Name: "Sun Crown", Rarity: domain.RarityLegendary, Defense: intPtr(40)})

	store.AddRecipe(domain.CraftingRecipe{
		ID:           recipeBlade,
		Name:         "Flame Blade",
		InputItemIDs: []string{itemShard},
		OutputItemID: itemBlade,
		GoldCost:     50,
		UnlockLevel:  3,
		SuccessRate:  50,
		RarityBoost:  true,
	})
	store.AddRecipe(domain.CraftingRecipe{
		ID:           recipeCrown,
		Name:         "Sun Crown",
		InputItemIDs: []string{itemIngot},
		OutputItemID: itemCrown,
		GoldCost:     0,
		UnlockLevel:  10,
		SuccessRate:  100,
		RarityBoost:  true,
	})
	store.AddRecipe(domain.CraftingRecipe{
		ID:           recipeTwin,
		Name:         "Twin Shard Ingot",
		InputItemIDs: []string{itemShard, itemShard},
		OutputItemID: itemIngot,
		GoldCost:     10,
		UnlockLevel:  1,
		SuccessRate:  100,
	})

	store.SetQuantity(testUserID, itemShard, 1)

	svc := NewService(store.Crafting(), store).(*service)
	if rnd != nil {
		svc.rnd = rnd
	}
	return store, svc
}
