package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/repository"
	"github.com/osse101/Ascend_Go/internal/season"
)

// SeasonRollover is the part of the season service the rollover worker drives
type SeasonRollover interface {
	GetCurrentSeason(ctx context.Context) (*domain.Season, error)
	StartSeason(ctx context.Context, input season.StartSeasonInput) (*domain.Season, error)
	CloseSeason(ctx context.Context, seasonID string) (bool, error)
}

// SeasonRolloverWorker closes the active season when it ends. With AutoStart
// it immediately starts the next season with the same tier table.
type SeasonRolloverWorker struct {
	BaseWorker
	seasons   SeasonRollover
	catalog   repository.Catalog
	autoStart bool
}

// NewSeasonRolloverWorker creates a new SeasonRolloverWorker
func NewSeasonRolloverWorker(seasons SeasonRollover, catalog repository.Catalog, autoStart bool) *SeasonRolloverWorker {
	w := &SeasonRolloverWorker{
		seasons:   seasons,
		catalog:   catalog,
		autoStart: autoStart,
	}
	w.init()
	return w
}

// Start schedules the end of the current season
func (w *SeasonRolloverWorker) Start(ctx context.Context) error {
	current, err := w.seasons.GetCurrentSeason(ctx)
	if errors.Is(err, domain.ErrNoActiveSeason) {
		logger.FromContext(ctx).Info(LogMsgNoActiveSeason)
		return nil
	}
	if err != nil {
		return fmt.Errorf(ErrMsgGetSeasonFailed, err)
	}
	w.Schedule(ctx, current)
	return nil
}

// Schedule arranges for s to be rolled over at its end time. A season that
// already ended is rolled over right away.
func (w *SeasonRolloverWorker) Schedule(ctx context.Context, s *domain.Season) {
	logger.FromContext(ctx).Info(LogMsgSeasonEndScheduled,
		"season_id", s.ID,
		"ends_at", s.EndsAt.Format(time.RFC3339))

	ended := *s
	w.scheduleAt(s.ID, s.EndsAt, func() {
		ctx := context.Background()
		if err := w.rollover(ctx, &ended); err != nil {
			logger.FromContext(ctx).Error(LogMsgSeasonRolloverFailed, "season_id", ended.ID, "error", err)
		}
	})
}

func (w *SeasonRolloverWorker) rollover(ctx context.Context, ended *domain.Season) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSeasonRolloverStarting, "season_id", ended.ID, "season_number", ended.SeasonNumber)

	closed, err := w.seasons.CloseSeason(ctx, ended.ID)
	if err != nil {
		return fmt.Errorf(ErrMsgCloseSeasonFailed, ended.ID, err)
	}
	// Someone else replaced the season; the running one has its own timer.
	if !closed {
		log.Info(LogMsgSeasonAlreadyReplaced, "season_id", ended.ID)
		return nil
	}
	if !w.autoStart {
		return nil
	}

	tiers, err := w.catalog.GetSeasonTiers(ctx, ended.ID)
	if err != nil {
		return fmt.Errorf(ErrMsgLoadTiersFailed, ended.ID, err)
	}
	next, err := w.seasons.StartSeason(ctx, season.StartSeasonInput{
		Duration: ended.EndsAt.Sub(ended.StartsAt),
		Tiers:    tiers,
	})
	if err != nil {
		return fmt.Errorf(ErrMsgStartSeasonFailed, ended.ID, err)
	}

	log.Info(LogMsgNextSeasonStarted, "season_id", next.ID, "season_number", next.SeasonNumber)
	w.Schedule(ctx, next)
	return nil
}

// Shutdown cancels the pending rollover and waits for one in progress
func (w *SeasonRolloverWorker) Shutdown(ctx context.Context) error {
	return w.shutdownInternal(ctx, "season rollover worker")
}
