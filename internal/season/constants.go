package season

import "time"

// DefaultSeasonDuration is used by StartSeason when no duration is given
const DefaultSeasonDuration = 90 * 24 * time.Hour

// DefaultSeasonNameFmt names a season started without a name
const DefaultSeasonNameFmt = "Season %d"

// ==================== User Messages ====================

const (
	FeedTitleClaimedFmt = "Claimed tier %d %s reward"
	ActivityClaimedFmt  = "Claimed %s reward for tier %d"
	ClaimFailureFmt     = "Tier %d %s: %s"
)

// ==================== Error Messages ====================

const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgGetActiveSeasonFailed   = "failed to get active season: %w"
	ErrMsgGetSeasonFailed         = "failed to get season: %w"
	ErrMsgGetTiersFailed          = "failed to get season tiers: %w"
	ErrMsgGetUserFailed           = "failed to get user: %w"
	ErrMsgGetProgressFailed       = "failed to get season progress: %w"
	ErrMsgUpdateProgressFailed    = "failed to update season progress: %w"
	ErrMsgGrantRewardFailed       = "failed to grant reward: %w"
	ErrMsgMarkClaimedFailed       = "failed to mark tier claimed: %w"
	ErrMsgEnqueueEventFailed      = "failed to enqueue event: %w"
	ErrMsgStartSeasonFailed       = "failed to start season: %w"
	ErrMsgCloseSeasonFailed       = "failed to close season: %w"
	ErrMsgXPAmountFmt             = "xp amount %d | %w"
	ErrMsgTierNotReachedFmt       = "tier %d not reached (current %d) | %w"
	ErrMsgAlreadyClaimedFmt       = "tier %d %s | %w"
	ErrMsgTierNotFoundFmt         = "tier %d | %w"
	ErrMsgRewardNotFoundFmt       = "tier %d has no %s reward | %w"
	ErrMsgTierOrderFmt            = "tier %d requires %d xp, not more than tier %d | %w"
	ErrMsgTierNumberFmt           = "tier number %d | %w"
	ErrMsgDuplicateTierFmt        = "duplicate tier %d | %w"
)

// ==================== Log Messages ====================

const (
	LogMsgAddXPCalled     = "AddSeasonXP called"
	LogMsgTierUp          = "Season tier up"
	LogMsgClaimCalled     = "ClaimSeasonReward called"
	LogMsgClaimRejected   = "Claim rejected"
	LogMsgRewardClaimed   = "Season reward claimed"
	LogMsgClaimAllDone    = "ClaimAllRewards finished"
	LogMsgSeasonStarted   = "Season started"
	LogMsgSeasonClosed    = "Season closed"
	LogMsgSeasonNotActive = "Season already closed"
)
