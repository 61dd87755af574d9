// Package catalog serves immutable reference data (items, recipes, pets and
// season tiers) and syncs it from seed files.
package catalog

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/metrics"
	"github.com/osse101/Ascend_Go/internal/repository"
)

// Cache is a read-through LRU in front of a repository.Catalog. Entries expire
// after the TTL so a catalog sync becomes visible without a restart. Lookup
// errors are never cached.
type Cache struct {
	inner   repository.Catalog
	items   *expirable.LRU[string, domain.Item]
	recipes *expirable.LRU[string, domain.CraftingRecipe]
	pets    *expirable.LRU[string, domain.Pet]
	tiers   *expirable.LRU[string, []domain.SeasonTier]
}

var _ repository.Catalog = (*Cache)(nil)

// NewCache wraps inner. Non-positive size or ttl fall back to the defaults.
func NewCache(inner repository.Catalog, size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		inner:   inner,
		items:   expirable.NewLRU[string, domain.Item](size, nil, ttl),
		recipes: expirable.NewLRU[string, domain.CraftingRecipe](size, nil, ttl),
		pets:    expirable.NewLRU[string, domain.Pet](size, nil, ttl),
		tiers:   expirable.NewLRU[string, []domain.SeasonTier](size, nil, ttl),
	}
}

func lookup(kind string, hit bool) {
	result := metrics.CacheMiss
	if hit {
		result = metrics.CacheHit
	}
	metrics.CatalogCacheLookups.WithLabelValues(kind, result).Inc()
}

func (c *Cache) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	if item, ok := c.items.Get(itemID); ok {
		lookup("item", true)
		return &item, nil
	}
	lookup("item", false)

	item, err := c.inner.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	c.items.Add(itemID, *item)
	return item, nil
}

func (c *Cache) ListItems(ctx context.Context) ([]domain.Item, error) {
	items, err := c.inner.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		c.items.Add(item.ID, item)
	}
	return items, nil
}

func (c *Cache) GetRecipe(ctx context.Context, recipeID string) (*domain.CraftingRecipe, error) {
	if recipe, ok := c.recipes.Get(recipeID); ok {
		lookup("recipe", true)
		return &recipe, nil
	}
	lookup("recipe", false)

	recipe, err := c.inner.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	c.recipes.Add(recipeID, *recipe)
	return recipe, nil
}

func (c *Cache) ListRecipes(ctx context.Context) ([]domain.CraftingRecipe, error) {
	recipes, err := c.inner.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}
	for _, recipe := range recipes {
		c.recipes.Add(recipe.ID, recipe)
	}
	return recipes, nil
}

func (c *Cache) GetPet(ctx context.Context, petID string) (*domain.Pet, error) {
	if pet, ok := c.pets.Get(petID); ok {
		lookup("pet", true)
		return &pet, nil
	}
	lookup("pet", false)

	pet, err := c.inner.GetPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	c.pets.Add(petID, *pet)
	return pet, nil
}

func (c *Cache) ListPets(ctx context.Context) ([]domain.Pet, error) {
	pets, err := c.inner.ListPets(ctx)
	if err != nil {
		return nil, err
	}
	for _, pet := range pets {
		c.pets.Add(pet.ID, pet)
	}
	return pets, nil
}

// GetSeasonTiers caches non-empty tier lists only, since tiers are inserted
// after their season row
func (c *Cache) GetSeasonTiers(ctx context.Context, seasonID string) ([]domain.SeasonTier, error) {
	if tiers, ok := c.tiers.Get(seasonID); ok {
		lookup("season_tiers", true)
		return append([]domain.SeasonTier(nil), tiers...), nil
	}
	lookup("season_tiers", false)

	tiers, err := c.inner.GetSeasonTiers(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if len(tiers) == 0 {
		logger.FromContext(ctx).Debug(LogMsgTiersNotCached, "season_id", seasonID)
		return tiers, nil
	}
	c.tiers.Add(seasonID, append([]domain.SeasonTier(nil), tiers...))
	return tiers, nil
}

// Purge drops every cached entry
func (c *Cache) Purge() {
	c.items.Purge()
	c.recipes.Purge()
	c.pets.Purge()
	c.tiers.Purge()
	logger.Info(LogMsgCachePurged)
}
