package season

import (
	"context"
	"fmt"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/repository"
)

// StartSeason creates the next season with its tiers and makes it the only
// active one
func (s *service) StartSeason(ctx context.Context, input StartSeasonInput) (*domain.Season, error) {
	tiers := append([]domain.SeasonTier(nil), input.Tiers...)
	if err := validateTiers(tiers); err != nil {
		return nil, err
	}
	duration := input.Duration
	if duration <= 0 {
		duration = DefaultSeasonDuration
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	latest, err := tx.GetLatestSeasonNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgStartSeasonFailed, err)
	}
	if err := tx.DeactivateSeasons(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgStartSeasonFailed, err)
	}

	now := s.now()
	season := &domain.Season{
		Name:         input.Name,
		SeasonNumber: latest + 1,
		StartsAt:     now,
		EndsAt:       now.Add(duration),
		IsActive:     true,
	}
	if season.Name == "" {
		season.Name = fmt.Sprintf(DefaultSeasonNameFmt, season.SeasonNumber)
	}

	season.ID, err = tx.InsertSeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgStartSeasonFailed, err)
	}
	if err := tx.InsertSeasonTiers(ctx, season.ID, tiers); err != nil {
		return nil, fmt.Errorf(ErrMsgStartSeasonFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgSeasonStarted, "season_id", season.ID, "season_number", season.SeasonNumber, "tiers", len(tiers))
	return season, nil
}

// CloseSeason deactivates a season and reports whether this call closed it.
// Closing a season that is no longer active is a no-op that returns false.
func (s *service) CloseSeason(ctx context.Context, seasonID string) (bool, error) {
	log := logger.FromContext(ctx)

	if _, err := s.repo.GetSeason(ctx, seasonID); err != nil {
		return false, fmt.Errorf(ErrMsgGetSeasonFailed, err)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	closed, err := tx.DeactivateSeason(ctx, seasonID)
	if err != nil {
		return false, fmt.Errorf(ErrMsgCloseSeasonFailed, err)
	}
	if !closed {
		log.Info(LogMsgSeasonNotActive, "season_id", seasonID)
		return false, nil
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	log.Info(LogMsgSeasonClosed, "season_id", seasonID)
	return true, nil
}
