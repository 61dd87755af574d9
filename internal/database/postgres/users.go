package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/osse101/Ascend_Go/internal/domain"
)

const userColumns = `user_id::text, username, gold::text, diamonds, xp, level, streak_count, is_premium, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var gold string
	if err := row.Scan(&u.ID, &u.Username, &gold, &u.Diamonds, &u.XP, &u.Level, &u.StreakCount, &u.IsPremium, &u.CreatedAt); err != nil {
		if missing(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetUser, err)
	}
	g, err := decimal.NewFromString(gold)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgFailedToDecodeRow+": %w", "user", err)
	}
	u.Gold = g
	return &u, nil
}

// GetUser returns a user without locking it
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID))
}

// CreateUser inserts a user with the given username and returns its id
func (s *Store) CreateUser(ctx context.Context, u domain.User) (string, error) {
	level := u.Level
	if level < 1 {
		level = 1
	}
	var id string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, gold, diamonds, xp, level, streak_count, is_premium)
		VALUES ($1, $2::numeric, $3, $4, $5, $6, $7)
		RETURNING user_id::text`,
		u.Username, u.Gold.String(), u.Diamonds, u.XP, level, u.StreakCount, u.IsPremium,
	).Scan(&id)
	if err != nil {
		if pgCode(err) == PgErrorCodeUniqueViolation {
			return "", domain.ErrUsernameTaken
		}
		return "", fmt.Errorf("%s: %w", ErrMsgFailedToUpdateUser, err)
	}
	return id, nil
}

func (t *Tx) GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	return scanUser(t.tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1 FOR UPDATE`, userID))
}

// LockUser serializes per-user work on the users row
func (t *Tx) LockUser(ctx context.Context, userID string) error {
	var one int
	err := t.tx.QueryRow(ctx, `SELECT 1 FROM users WHERE user_id = $1 FOR UPDATE`, userID).Scan(&one)
	if missing(err) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToGetUser, err)
	}
	return nil
}

// AddGold only applies the delta if the balance stays non-negative
func (t *Tx) AddGold(ctx context.Context, userID string, delta decimal.Decimal) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE users SET gold = gold + $2::numeric, updated_at = NOW()
		WHERE user_id = $1 AND gold + $2::numeric >= 0`,
		userID, delta.String())
	if err != nil {
		if missing(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateUser, err)
	}
	if tag.RowsAffected() == 0 {
		return t.balanceMiss(ctx, userID)
	}
	return nil
}

func (t *Tx) AddDiamonds(ctx context.Context, userID string, delta int) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE users SET diamonds = diamonds + $2, updated_at = NOW()
		WHERE user_id = $1 AND diamonds + $2 >= 0`,
		userID, delta)
	if err != nil {
		if missing(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateUser, err)
	}
	if tag.RowsAffected() == 0 {
		return t.balanceMiss(ctx, userID)
	}
	return nil
}

// balanceMiss tells a missing user apart from an insufficient balance
func (t *Tx) balanceMiss(ctx context.Context, userID string) error {
	var exists bool
	if err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`, userID).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToGetUser, err)
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	return domain.ErrInsufficientFunds
}
