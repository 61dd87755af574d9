package repository

import (
	"context"

	"github.com/osse101/Ascend_Go/internal/domain"
)

// Catalog reads immutable reference data
type Catalog interface {
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
	ListItems(ctx context.Context) ([]domain.Item, error)
	GetRecipe(ctx context.Context, recipeID string) (*domain.CraftingRecipe, error)
	// ListRecipes returns recipes ordered by unlock level ascending
	ListRecipes(ctx context.Context) ([]domain.CraftingRecipe, error)
	GetPet(ctx context.Context, petID string) (*domain.Pet, error)
	ListPets(ctx context.Context) ([]domain.Pet, error)
	// GetSeasonTiers returns tiers ordered by tier number ascending
	GetSeasonTiers(ctx context.Context, seasonID string) ([]domain.SeasonTier, error)
}

// CatalogWriter upserts reference data from seed files
type CatalogWriter interface {
	UpsertItem(ctx context.Context, item domain.Item) error
	UpsertRecipe(ctx context.Context, recipe domain.CraftingRecipe) error
	UpsertPet(ctx context.Context, pet domain.Pet) error
}
