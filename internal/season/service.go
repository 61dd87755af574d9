// Package season tracks battlepass progress: season XP, derived tiers and
// free/premium reward claims.
package season

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/repository"
	"github.com/osse101/Ascend_Go/internal/reward"
)

// XPResult is the outcome of AddSeasonXP
type XPResult struct {
	SeasonID string `json:"season_id"`
	XP       int    `json:"xp"`
	OldTier  int    `json:"old_tier"`
	NewTier  int    `json:"new_tier"`
	TieredUp bool   `json:"tiered_up"`
}

// ClaimResult describes one granted tier reward
type ClaimResult struct {
	SeasonID string        `json:"season_id"`
	Tier     int           `json:"tier"`
	Track    domain.Track  `json:"track"`
	Reward   domain.Reward `json:"-"`
}

// ClaimFailure is a claim ClaimAllRewards could not make
type ClaimFailure struct {
	Tier  int          `json:"tier"`
	Track domain.Track `json:"track"`
	Err   error        `json:"-"`
}

func (f ClaimFailure) Error() string {
	return fmt.Sprintf(ClaimFailureFmt, f.Tier, f.Track, f.Err)
}

// ClaimAllResult is the outcome of ClaimAllRewards
type ClaimAllResult struct {
	Claimed []ClaimResult  `json:"claimed"`
	Failed  []ClaimFailure `json:"failed"`
}

// ProgressView is a user's full battlepass state in the active season
type ProgressView struct {
	Season        domain.Season             `json:"season"`
	Tiers         []domain.SeasonTier       `json:"tiers"`
	Progress      domain.UserSeasonProgress `json:"progress"`
	UnlockedTiers []int                     `json:"unlocked_tiers"`
	NextTier      *domain.SeasonTier        `json:"next_tier,omitempty"`
	XPToNextTier  int                       `json:"xp_to_next_tier"`
}

// StartSeasonInput describes a new season
type StartSeasonInput struct {
	Name     string
	Duration time.Duration
	Tiers    []domain.SeasonTier
}

// Service defines the interface for season progression
type Service interface {
	AddSeasonXP(ctx context.Context, userID string, amount int) (*XPResult, error)
	ClaimSeasonReward(ctx context.Context, userID, seasonID string, tier int, track domain.Track) (*ClaimResult, error)
	ClaimAllRewards(ctx context.Context, userID string) (*ClaimAllResult, error)
	GetSeasonProgress(ctx context.Context, userID string) (*ProgressView, error)
	GetCurrentSeason(ctx context.Context) (*domain.Season, error)
	StartSeason(ctx context.Context, input StartSeasonInput) (*domain.Season, error)
	CloseSeason(ctx context.Context, seasonID string) (bool, error)
}

type service struct {
	repo    repository.Season
	catalog repository.Catalog
	granter reward.Granter
	now     func() time.Time
}

// NewService creates a new season service
func NewService(repo repository.Season, catalog repository.Catalog, granter reward.Granter) Service {
	return &service{
		repo:    repo,
		catalog: catalog,
		granter: granter,
		now:     time.Now,
	}
}

// GetCurrentSeason returns the active season or domain.ErrNoActiveSeason
func (s *service) GetCurrentSeason(ctx context.Context) (*domain.Season, error) {
	season, err := s.repo.GetActiveSeason(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetActiveSeasonFailed, err)
	}
	return season, nil
}

// AddSeasonXP adds XP in the active season, creating progress on first use.
// The tier only moves forward. A tier-up enqueues season.tier_up but grants nothing.
func (s *service) AddSeasonXP(ctx context.Context, userID string, amount int) (*XPResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgAddXPCalled, "user_id", userID, "amount", amount)

	if amount < 0 {
		return nil, fmt.Errorf(ErrMsgXPAmountFmt, amount, domain.ErrInvalidXPAmount)
	}

	season, err := s.GetCurrentSeason(ctx)
	if err != nil {
		return nil, err
	}
	tiers, err := s.catalog.GetSeasonTiers(ctx, season.ID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetTiersFailed, err)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	progress, err := tx.CreateProgress(ctx, userID, season.ID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetProgressFailed, err)
	}

	result := &XPResult{
		SeasonID: season.ID,
		XP:       progress.XP + amount,
		OldTier:  progress.CurrentTier,
		NewTier:  progress.CurrentTier,
	}
	if derived := DeriveTier(tiers, result.XP); derived > result.NewTier {
		result.NewTier = derived
		result.TieredUp = true
	}

	if err := tx.UpdateProgress(ctx, userID, season.ID, result.XP, result.NewTier); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateProgressFailed, err)
	}

	if result.TieredUp {
		evt, err := domain.NewOutboxEvent(domain.EventTypeSeasonTierUp, domain.SeasonTierUpPayload{
			UserID:     userID,
			SeasonID:   season.ID,
			SeasonName: season.Name,
			OldTier:    result.OldTier,
			NewTier:    result.NewTier,
		})
		if err != nil {
			return nil, err
		}
		if err := tx.EnqueueEvent(ctx, evt); err != nil {
			return nil, fmt.Errorf(ErrMsgEnqueueEventFailed, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	if result.TieredUp {
		log.Info(LogMsgTierUp, "user_id", userID, "season_id", season.ID, "old_tier", result.OldTier, "new_tier", result.NewTier)
	}
	return result, nil
}

// GetSeasonProgress returns the user's state in the active season, creating
// an empty progress row on first use
func (s *service) GetSeasonProgress(ctx context.Context, userID string) (*ProgressView, error) {
	season, err := s.GetCurrentSeason(ctx)
	if err != nil {
		return nil, err
	}
	tiers, err := s.catalog.GetSeasonTiers(ctx, season.ID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetTiersFailed, err)
	}

	progress, err := s.ensureProgress(ctx, userID, season.ID)
	if err != nil {
		return nil, err
	}

	view := &ProgressView{
		Season:        *season,
		Tiers:         tiers,
		Progress:      *progress,
		UnlockedTiers: []int{},
	}
	for _, t := range tiers {
		if t.Tier <= progress.CurrentTier {
			view.UnlockedTiers = append(view.UnlockedTiers, t.Tier)
		}
	}
	if next := nextTier(tiers, progress.CurrentTier); next != nil {
		view.NextTier = next
		view.XPToNextTier = max(next.XPRequired-progress.XP, 0)
	}
	return view, nil
}

// ensureProgress loads or creates a progress row in its own transaction
func (s *service) ensureProgress(ctx context.Context, userID, seasonID string) (*domain.UserSeasonProgress, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	progress, err := tx.CreateProgress(ctx, userID, seasonID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetProgressFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}
	return progress, nil
}
