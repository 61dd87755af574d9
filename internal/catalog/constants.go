package catalog

import "time"

// Seed file names inside the catalog directory
const (
	ItemsFile   = "items.json"
	RecipesFile = "recipes.json"
	PetsFile    = "pets.json"
	SeasonFile  = "season.json"
)

// Schema file names inside the schema directory
const (
	ItemsSchema   = "items.schema.json"
	RecipesSchema = "recipes.schema.json"
	PetsSchema    = "pets.schema.json"
	SeasonSchema  = "season.schema.json"
)

// Cache defaults
const (
	DefaultCacheSize = 1024
	DefaultCacheTTL  = 10 * time.Minute
)

// ==================== Log Messages ====================

const (
	LogMsgCatalogLoaded  = "Catalog loaded"
	LogMsgCatalogSynced  = "Catalog synced to database"
	LogMsgSeasonLoaded   = "Season template loaded"
	LogMsgCachePurged    = "Catalog cache purged"
	LogMsgTiersNotCached = "Season has no tiers, not caching"
)

// ==================== Error Messages ====================

const (
	ErrMsgReadFileFailed  = "failed to read %s: %w"
	ErrMsgSchemaFailed    = "%s does not match its schema: %w"
	ErrMsgParseFileFailed = "failed to parse %s: %w"
	ErrMsgEntryInvalid    = "%s entry %q: %s: %w"
	ErrMsgUpsertFailed    = "failed to upsert %s %q: %w"
	ErrMsgEmptyID         = "%s at index %d has an empty id: %w"
	ErrMsgDuplicateID     = "%s %q: %w"
	ErrMsgUnknownItemRef  = "recipe %q references unknown item %q: %w"
	ErrMsgRecipeNoInputs  = "recipe %q has no inputs: %w"
	ErrMsgCatalogNil      = "catalog is nil: %w"
)
