package season

import (
	"context"
	"fmt"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/repository"
)

// ClaimSeasonReward grants one tier reward. Checks run in order: progress
// exists, tier reached, not yet claimed, premium for the premium track, tier
// and reward exist. The grant and the claimed-set append share one
// transaction, so a reward is granted at most once per tier and track.
func (s *service) ClaimSeasonReward(ctx context.Context, userID, seasonID string, tier int, track domain.Track) (*ClaimResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgClaimCalled, "user_id", userID, "season_id", seasonID, "tier", tier, "track", track)

	if _, err := domain.ParseTrack(string(track)); err != nil {
		return nil, err
	}

	tiers, err := s.catalog.GetSeasonTiers(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetTiersFailed, err)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	tierDef, err := s.checkClaim(ctx, tx, userID, seasonID, tier, track, tiers)
	if err != nil {
		log.Warn(LogMsgClaimRejected, "user_id", userID, "season_id", seasonID, "tier", tier, "track", track, "error", err)
		return nil, err
	}
	r := tierDef.RewardFor(track)

	if err := s.granter.Grant(ctx, tx, userID, r); err != nil {
		return nil, fmt.Errorf(ErrMsgGrantRewardFailed, err)
	}
	if err := tx.AddClaimedTier(ctx, userID, seasonID, track, tier); err != nil {
		return nil, fmt.Errorf(ErrMsgMarkClaimedFailed, err)
	}
	if err := s.enqueueClaimEvents(ctx, tx, userID, seasonID, tier, track, r); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	log.Info(LogMsgRewardClaimed, "user_id", userID, "season_id", seasonID, "tier", tier, "track", track, "reward_type", r.Type())
	return &ClaimResult{SeasonID: seasonID, Tier: tier, Track: track, Reward: r}, nil
}

// checkClaim locks the user and progress rows and validates the claim
func (s *service) checkClaim(ctx context.Context, tx repository.SeasonTx, userID, seasonID string, tier int, track domain.Track, tiers []domain.SeasonTier) (*domain.SeasonTier, error) {
	user, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	progress, err := tx.GetProgressForUpdate(ctx, userID, seasonID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetProgressFailed, err)
	}

	if progress.CurrentTier < tier {
		return nil, fmt.Errorf(ErrMsgTierNotReachedFmt, tier, progress.CurrentTier, domain.ErrTierNotReached)
	}
	if progress.HasClaimed(track, tier) {
		return nil, fmt.Errorf(ErrMsgAlreadyClaimedFmt, tier, track, domain.ErrAlreadyClaimed)
	}
	if track == domain.TrackPremium && !user.IsPremium {
		return nil, domain.ErrPremiumRequired
	}

	tierDef := findTier(tiers, tier)
	if tierDef == nil {
		return nil, fmt.Errorf(ErrMsgTierNotFoundFmt, tier, domain.ErrTierNotFound)
	}
	if tierDef.RewardFor(track) == nil {
		return nil, fmt.Errorf(ErrMsgRewardNotFoundFmt, tier, track, domain.ErrRewardNotFound)
	}
	return tierDef, nil
}

func (s *service) enqueueClaimEvents(ctx context.Context, tx repository.SeasonTx, userID, seasonID string, tier int, track domain.Track, r domain.Reward) error {
	meta := map[string]interface{}{
		"season_id":   seasonID,
		"tier":        tier,
		"track":       track,
		"reward_type": r.Type(),
	}

	claimed, err := domain.NewOutboxEvent(domain.EventTypeSeasonRewardClaimed, domain.SeasonRewardClaimedPayload{
		UserID:     userID,
		SeasonID:   seasonID,
		Tier:       tier,
		Track:      track,
		RewardType: r.Type(),
	})
	if err != nil {
		return err
	}
	activity, err := domain.NewOutboxEvent(domain.EventTypeActivityLogged, domain.ActivityLoggedPayload{
		UserID:  userID,
		Action:  domain.ActivityRewardClaimed,
		Summary: fmt.Sprintf(ActivityClaimedFmt, track, tier),
		Detail:  meta,
	})
	if err != nil {
		return err
	}
	feed, err := domain.NewOutboxEvent(domain.EventTypeFeedItem, domain.FeedItemPayload{
		UserID:   userID,
		Type:     domain.FeedTypeSeason,
		Title:    fmt.Sprintf(FeedTitleClaimedFmt, tier, track),
		Metadata: meta,
	})
	if err != nil {
		return err
	}

	for _, evt := range []domain.OutboxEvent{claimed, activity, feed} {
		if err := tx.EnqueueEvent(ctx, evt); err != nil {
			return fmt.Errorf(ErrMsgEnqueueEventFailed, err)
		}
	}
	return nil
}

// ClaimAllRewards claims every reached, unclaimed tier reward in the active
// season: free always, premium only for premium users, and only tracks that
// carry a reward. Each claim is its own transaction; failures are collected.
func (s *service) ClaimAllRewards(ctx context.Context, userID string) (*ClaimAllResult, error) {
	log := logger.FromContext(ctx)

	season, err := s.GetCurrentSeason(ctx)
	if err != nil {
		return nil, err
	}
	tiers, err := s.catalog.GetSeasonTiers(ctx, season.ID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetTiersFailed, err)
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	progress, err := s.ensureProgress(ctx, userID, season.ID)
	if err != nil {
		return nil, err
	}

	result := &ClaimAllResult{Claimed: []ClaimResult{}, Failed: []ClaimFailure{}}
	for _, t := range tiers {
		if t.Tier > progress.CurrentTier {
			continue
		}
		for _, track := range []domain.Track{domain.TrackFree, domain.TrackPremium} {
			if t.RewardFor(track) == nil || progress.HasClaimed(track, t.Tier) {
				continue
			}
			if track == domain.TrackPremium && !user.IsPremium {
				continue
			}
			claim, err := s.ClaimSeasonReward(ctx, userID, season.ID, t.Tier, track)
			if err != nil {
				result.Failed = append(result.Failed, ClaimFailure{Tier: t.Tier, Track: track, Err: err})
				continue
			}
			result.Claimed = append(result.Claimed, *claim)
		}
	}

	log.Info(LogMsgClaimAllDone, "user_id", userID, "season_id", season.ID, "claimed", len(result.Claimed), "failed", len(result.Failed))
	return result, nil
}
