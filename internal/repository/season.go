package repository

import (
	"context"

	"github.com/osse101/Ascend_Go/internal/domain"
)

// Season defines the interface for season persistence
type Season interface {
	GetActiveSeason(ctx context.Context) (*domain.Season, error)
	GetSeason(ctx context.Context, seasonID string) (*domain.Season, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	BeginTx(ctx context.Context) (SeasonTx, error)
}

// SeasonTx defines the interface for season transactions
type SeasonTx interface {
	Tx
	RewardTx
	OutboxWriter
	// GetProgressForUpdate locks the progress row; domain.ErrProgressNotFound if absent
	GetProgressForUpdate(ctx context.Context, userID, seasonID string) (*domain.UserSeasonProgress, error)
	// CreateProgress inserts a zero row if none exists and returns the locked row
	CreateProgress(ctx context.Context, userID, seasonID string) (*domain.UserSeasonProgress, error)
	UpdateProgress(ctx context.Context, userID, seasonID string, xp, tier int) error
	// AddClaimedTier appends tier to the track's claimed-set
	AddClaimedTier(ctx context.Context, userID, seasonID string, track domain.Track, tier int) error

	GetLatestSeasonNumber(ctx context.Context) (int, error)
	DeactivateSeasons(ctx context.Context) error
	// DeactivateSeason closes seasonID only if it is still active and reports
	// whether it did
	DeactivateSeason(ctx context.Context, seasonID string) (bool, error)
	InsertSeason(ctx context.Context, season *domain.Season) (string, error)
	InsertSeasonTiers(ctx context.Context, seasonID string, tiers []domain.SeasonTier) error
}
