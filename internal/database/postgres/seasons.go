package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/Ascend_Go/internal/domain"
)

const (
	seasonColumns   = `season_id::text, name, season_number, starts_at, ends_at, is_active`
	progressColumns = `user_id::text, season_id::text, xp, current_tier, claimed_free, claimed_premium, updated_at`
)

func scanSeason(row pgx.Row) (*domain.Season, error) {
	var s domain.Season
	if err := row.Scan(&s.ID, &s.Name, &s.SeasonNumber, &s.StartsAt, &s.EndsAt, &s.IsActive); err != nil {
		return nil, err
	}
	return &s, nil
}

func scanProgress(row pgx.Row) (*domain.UserSeasonProgress, error) {
	var p domain.UserSeasonProgress
	if err := row.Scan(&p.UserID, &p.SeasonID, &p.XP, &p.CurrentTier, &p.ClaimedFree, &p.ClaimedPremium, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetActiveSeason(ctx context.Context) (*domain.Season, error) {
	season, err := scanSeason(s.pool.QueryRow(ctx, `
		SELECT `+seasonColumns+` FROM seasons WHERE is_active
		ORDER BY season_number DESC LIMIT 1`))
	if err != nil {
		if missing(err) {
			return nil, domain.ErrNoActiveSeason
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetSeason, err)
	}
	return season, nil
}

func (s *Store) GetSeason(ctx context.Context, seasonID string) (*domain.Season, error) {
	season, err := scanSeason(s.pool.QueryRow(ctx, `SELECT `+seasonColumns+` FROM seasons WHERE season_id = $1`, seasonID))
	if err != nil {
		if missing(err) {
			return nil, domain.ErrSeasonNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetSeason, err)
	}
	return season, nil
}

// GetProgressForUpdate locks the progress row
func (t *Tx) GetProgressForUpdate(ctx context.Context, userID, seasonID string) (*domain.UserSeasonProgress, error) {
	p, err := scanProgress(t.tx.QueryRow(ctx, `
		SELECT `+progressColumns+` FROM user_season_progress
		WHERE user_id = $1 AND season_id = $2
		FOR UPDATE`,
		userID, seasonID))
	if err != nil {
		if missing(err) {
			return nil, domain.ErrProgressNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetProgress, err)
	}
	return p, nil
}

// CreateProgress inserts a zero row unless one exists, then locks it
func (t *Tx) CreateProgress(ctx context.Context, userID, seasonID string) (*domain.UserSeasonProgress, error) {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO user_season_progress (user_id, season_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, season_id) DO NOTHING`,
		userID, seasonID)
	if err != nil {
		if missing(err) || pgCode(err) == PgErrorCodeForeignKeyViolation {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToWriteProgress, err)
	}
	return t.GetProgressForUpdate(ctx, userID, seasonID)
}

func (t *Tx) UpdateProgress(ctx context.Context, userID, seasonID string, xp, tier int) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE user_season_progress SET xp = $3, current_tier = $4, updated_at = NOW()
		WHERE user_id = $1 AND season_id = $2`,
		userID, seasonID, xp, tier)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToWriteProgress, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProgressNotFound
	}
	return nil
}

// AddClaimedTier appends tier to the track's claimed-set. The guard in the
// WHERE clause keeps the set free of duplicates.
func (t *Tx) AddClaimedTier(ctx context.Context, userID, seasonID string, track domain.Track, tier int) error {
	column := "claimed_free"
	if track == domain.TrackPremium {
		column = "claimed_premium"
	}
	tag, err := t.tx.Exec(ctx, `
		UPDATE user_season_progress
		SET `+column+` = array_append(`+column+`, $3), updated_at = NOW()
		WHERE user_id = $1 AND season_id = $2 AND NOT ($3 = ANY(`+column+`))`,
		userID, seasonID, tier)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToWriteProgress, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	if _, err := t.GetProgressForUpdate(ctx, userID, seasonID); err != nil {
		return err
	}
	return domain.ErrAlreadyClaimed
}

func (t *Tx) GetLatestSeasonNumber(ctx context.Context) (int, error) {
	var latest int
	if err := t.tx.QueryRow(ctx, `SELECT COALESCE(MAX(season_number), 0) FROM seasons`).Scan(&latest); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToGetSeason, err)
	}
	return latest, nil
}

func (t *Tx) DeactivateSeasons(ctx context.Context) error {
	if _, err := t.tx.Exec(ctx, `UPDATE seasons SET is_active = FALSE WHERE is_active`); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToWriteSeason, err)
	}
	return nil
}

func (t *Tx) DeactivateSeason(ctx context.Context, seasonID string) (bool, error) {
	tag, err := t.tx.Exec(ctx, `UPDATE seasons SET is_active = FALSE WHERE season_id = $1 AND is_active`, seasonID)
	if err != nil {
		if missing(err) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToWriteSeason, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (t *Tx) InsertSeason(ctx context.Context, season *domain.Season) (string, error) {
	var id string
	err := t.tx.QueryRow(ctx, `
		INSERT INTO seasons (name, season_number, starts_at, ends_at, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING season_id::text`,
		season.Name, season.SeasonNumber, season.StartsAt, season.EndsAt, season.IsActive,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrMsgFailedToWriteSeason, err)
	}
	return id, nil
}

func (t *Tx) InsertSeasonTiers(ctx context.Context, seasonID string, tiers []domain.SeasonTier) error {
	batch := &pgx.Batch{}
	for _, tier := range tiers {
		free, err := domain.MarshalReward(tier.FreeReward)
		if err != nil {
			return fmt.Errorf(ErrMsgFailedToEncodeColumn+": %w", "free reward", err)
		}
		premium, err := domain.MarshalReward(tier.PremiumReward)
		if err != nil {
			return fmt.Errorf(ErrMsgFailedToEncodeColumn+": %w", "premium reward", err)
		}
		batch.Queue(`
			INSERT INTO season_tiers (season_id, tier, xp_required, free_reward, premium_reward)
			VALUES ($1, $2, $3, $4, $5)`,
			seasonID, tier.Tier, tier.XPRequired, nullJSON(free), nullJSON(premium))
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		if missing(err) || pgCode(err) == PgErrorCodeForeignKeyViolation {
			return domain.ErrSeasonNotFound
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToWriteSeason, err)
	}
	return nil
}

// nullJSON maps an empty encoding to SQL NULL
func nullJSON(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
