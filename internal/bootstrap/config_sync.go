package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/osse101/Ascend_Go/internal/catalog"
	"github.com/osse101/Ascend_Go/internal/config"
	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/repository"
	"github.com/osse101/Ascend_Go/internal/season"
	"github.com/osse101/Ascend_Go/internal/validation"
)

// SeasonStarter is the part of the season service used by setup
type SeasonStarter interface {
	GetCurrentSeason(ctx context.Context) (*domain.Season, error)
	StartSeason(ctx context.Context, input season.StartSeasonInput) (*domain.Season, error)
}

func newCatalogLoader(cfg *config.Config) *catalog.Loader {
	return catalog.NewLoader(validation.NewSchemaValidator(os.DirFS(cfg.SchemaDir)))
}

// SyncCatalog loads, validates, and upserts the catalog seed files.
// It handles the complete lifecycle: load JSON, validate, sync to DB, log results.
func SyncCatalog(ctx context.Context, cfg *config.Config, w repository.CatalogWriter) (*catalog.SyncResult, error) {
	logger.FromContext(ctx).Info(LogMsgSyncingCatalog, "dir", cfg.CatalogDir)
	loader := newCatalogLoader(cfg)

	catalogConfig, err := loader.Load(os.DirFS(cfg.CatalogDir))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}

	if err := loader.Validate(catalogConfig); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidCatalog, err)
	}

	result, err := loader.SyncToDatabase(ctx, catalogConfig, w)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedSyncCatalog, err)
	}

	logger.FromContext(ctx).Info(LogMsgCatalogSynced,
		"items", result.Items,
		"recipes", result.Recipes,
		"pets", result.Pets)
	return result, nil
}

// StartSeasonFromTemplate starts a season from the catalog's season template.
// If a season is already active it is returned unchanged unless force is set,
// in which case the new season replaces it.
func StartSeasonFromTemplate(ctx context.Context, cfg *config.Config, seasons SeasonStarter, force bool) (*domain.Season, error) {
	log := logger.FromContext(ctx)

	if !force {
		current, err := seasons.GetCurrentSeason(ctx)
		if err == nil {
			log.Info(LogMsgSeasonAlreadyRun, "season_id", current.ID, "name", current.Name)
			return current, nil
		}
		if !errors.Is(err, domain.ErrNoActiveSeason) {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedStartSeason, err)
		}
	}

	log.Info(LogMsgStartingSeason, "dir", cfg.CatalogDir)
	tmpl, err := newCatalogLoader(cfg).LoadSeason(os.DirFS(cfg.CatalogDir))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadSeason, err)
	}

	started, err := seasons.StartSeason(ctx, season.StartSeasonInput{
		Name:     tmpl.Name,
		Duration: tmpl.Duration(),
		Tiers:    tmpl.Tiers,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedStartSeason, err)
	}

	log.Info(LogMsgSeasonStarted,
		"season_id", started.ID,
		"season_number", started.SeasonNumber,
		"ends_at", started.EndsAt)
	return started, nil
}
