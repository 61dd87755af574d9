package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/repository"
	"github.com/osse101/Ascend_Go/internal/validation"
)

// Sentinel errors for the catalog loader
var (
	ErrDuplicateKey = errors.New("duplicate catalog key")
	ErrInvalidItem  = errors.New("invalid item reference")
	ErrInvalidEntry = errors.New("invalid catalog entry")
)

// Config is the parsed content of the catalog seed files
type Config struct {
	Items   []domain.Item
	Recipes []domain.CraftingRecipe
	Pets    []domain.Pet
}

type itemsFile struct {
	Version string        `json:"version"`
	Items   []domain.Item `json:"items"`
}

type recipesFile struct {
	Version string                  `json:"version"`
	Recipes []domain.CraftingRecipe `json:"recipes"`
}

type petsFile struct {
	Version string       `json:"version"`
	Pets    []domain.Pet `json:"pets"`
}

// SeasonTemplate is the seed for the next season started by setup
type SeasonTemplate struct {
	Name         string              `json:"name"`
	DurationDays int                 `json:"duration_days"`
	Tiers        []domain.SeasonTier `json:"tiers"`
}

// Duration converts DurationDays, zero meaning the season default
func (t *SeasonTemplate) Duration() time.Duration {
	return time.Duration(t.DurationDays) * 24 * time.Hour
}

// SyncResult counts what SyncToDatabase wrote
type SyncResult struct {
	Items   int
	Recipes int
	Pets    int
}

// Loader reads, validates and syncs catalog seed files
type Loader struct {
	schemas  validation.SchemaValidator
	validate *validation.Validator
}

// NewLoader creates a Loader that checks seed files against schemas
func NewLoader(schemas validation.SchemaValidator) *Loader {
	return &Loader{
		schemas:  schemas,
		validate: validation.NewValidator(),
	}
}

// Load reads the three seed files from dir, checking each against its schema
func (l *Loader) Load(dir fs.FS) (*Config, error) {
	var items itemsFile
	if err := l.readFile(dir, ItemsFile, ItemsSchema, &items); err != nil {
		return nil, err
	}
	var recipes recipesFile
	if err := l.readFile(dir, RecipesFile, RecipesSchema, &recipes); err != nil {
		return nil, err
	}
	var pets petsFile
	if err := l.readFile(dir, PetsFile, PetsSchema, &pets); err != nil {
		return nil, err
	}

	cfg := &Config{Items: items.Items, Recipes: recipes.Recipes, Pets: pets.Pets}
	logger.Info(LogMsgCatalogLoaded, "items", len(cfg.Items), "recipes", len(cfg.Recipes), "pets", len(cfg.Pets))
	return cfg, nil
}

// LoadSeason reads the season template from dir
func (l *Loader) LoadSeason(dir fs.FS) (*SeasonTemplate, error) {
	var tmpl SeasonTemplate
	if err := l.readFile(dir, SeasonFile, SeasonSchema, &tmpl); err != nil {
		return nil, err
	}
	logger.Info(LogMsgSeasonLoaded, "name", tmpl.Name, "tiers", len(tmpl.Tiers))
	return &tmpl, nil
}

func (l *Loader) readFile(dir fs.FS, name, schema string, out interface{}) error {
	data, err := fs.ReadFile(dir, name)
	if err != nil {
		return fmt.Errorf(ErrMsgReadFileFailed, name, err)
	}
	if err := l.schemas.ValidateBytes(data, schema); err != nil {
		return fmt.Errorf(ErrMsgSchemaFailed, name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf(ErrMsgParseFileFailed, name, err)
	}
	return nil
}

// Validate checks struct constraints, key uniqueness and recipe references
func (l *Loader) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf(ErrMsgCatalogNil, ErrInvalidEntry)
	}

	items := make(map[string]bool, len(cfg.Items))
	for i := range cfg.Items {
		item := &cfg.Items[i]
		if err := l.check("item", i, item.ID, item, items); err != nil {
			return err
		}
	}

	recipes := make(map[string]bool, len(cfg.Recipes))
	for i := range cfg.Recipes {
		recipe := &cfg.Recipes[i]
		if len(recipe.InputItemIDs) == 0 {
			return fmt.Errorf(ErrMsgRecipeNoInputs, recipe.ID, ErrInvalidEntry)
		}
		if err := l.check("recipe", i, recipe.ID, recipe, recipes); err != nil {
			return err
		}
		refs := append([]string{recipe.OutputItemID}, recipe.InputItemIDs...)
		for _, ref := range refs {
			if !items[ref] {
				return fmt.Errorf(ErrMsgUnknownItemRef, recipe.ID, ref, ErrInvalidItem)
			}
		}
	}

	pets := make(map[string]bool, len(cfg.Pets))
	for i := range cfg.Pets {
		pet := &cfg.Pets[i]
		if err := l.check("pet", i, pet.ID, pet, pets); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) check(kind string, index int, id string, entry interface{}, seen map[string]bool) error {
	if id == "" {
		return fmt.Errorf(ErrMsgEmptyID, kind, index, ErrInvalidEntry)
	}
	if seen[id] {
		return fmt.Errorf(ErrMsgDuplicateID, kind, id, ErrDuplicateKey)
	}
	seen[id] = true

	if err := l.validate.ValidateStruct(entry); err != nil {
		return fmt.Errorf(ErrMsgEntryInvalid, kind, id, describe(err), ErrInvalidEntry)
	}
	return nil
}

func describe(err error) string {
	fields := validation.FormatValidationError(err)
	if len(fields) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(fields))
	for field, msg := range fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

// SyncToDatabase upserts every entry. Items go first so recipe references
// resolve.
func (l *Loader) SyncToDatabase(ctx context.Context, cfg *Config, w repository.CatalogWriter) (*SyncResult, error) {
	result := &SyncResult{}
	for _, item := range cfg.Items {
		if err := w.UpsertItem(ctx, item); err != nil {
			return result, fmt.Errorf(ErrMsgUpsertFailed, "item", item.ID, err)
		}
		result.Items++
	}
	for _, recipe := range cfg.Recipes {
		if err := w.UpsertRecipe(ctx, recipe); err != nil {
			return result, fmt.Errorf(ErrMsgUpsertFailed, "recipe", recipe.ID, err)
		}
		result.Recipes++
	}
	for _, pet := range cfg.Pets {
		if err := w.UpsertPet(ctx, pet); err != nil {
			return result, fmt.Errorf(ErrMsgUpsertFailed, "pet", pet.ID, err)
		}
		result.Pets++
	}

	logger.FromContext(ctx).Info(LogMsgCatalogSynced, "items", result.Items, "recipes", result.Recipes, "pets", result.Pets)
	return result, nil
}
