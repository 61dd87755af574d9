package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/Ascend_Go/internal/catalog"
	"github.com/osse101/Ascend_Go/internal/config"
	"github.com/osse101/Ascend_Go/internal/database/postgres"
)

// Repositories holds the store and the catalog cache in front of it.
// Services read reference data through Catalog and everything else
// through the Store views.
type Repositories struct {
	Store   *postgres.Store
	Catalog *catalog.Cache
}

// InitializeRepositories creates the repository layer on dbPool
func InitializeRepositories(dbPool *pgxpool.Pool, cfg *config.Config) *Repositories {
	store := postgres.NewStore(dbPool)
	return &Repositories{
		Store:   store,
		Catalog: catalog.NewCache(store, cfg.CatalogCacheSize, cfg.CatalogCacheTTL),
	}
}
