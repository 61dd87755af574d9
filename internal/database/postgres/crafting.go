package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/osse101/Ascend_Go/internal/domain"
)

// InsertCraftingLog appends an audit row. There is no update path.
func (t *Tx) InsertCraftingLog(ctx context.Context, log *domain.CraftingLog) (string, error) {
	inputs, err := json.Marshal(log.Inputs)
	if err != nil {
		return "", fmt.Errorf(ErrMsgFailedToEncodeColumn+": %w", "crafting inputs", err)
	}
	output, err := marshalNullable(log.Output)
	if err != nil {
		return "", fmt.Errorf(ErrMsgFailedToEncodeColumn+": %w", "crafting output", err)
	}
	variance, err := marshalNullable(log.StatVariance)
	if err != nil {
		return "", fmt.Errorf(ErrMsgFailedToEncodeColumn+": %w", "stat variance", err)
	}
	var rarity *string
	if log.RarityAchieved != nil {
		r := string(*log.RarityAchieved)
		rarity = &r
	}
	var craftedAt *time.Time
	if !log.CraftedAt.IsZero() {
		craftedAt = &log.CraftedAt
	}

	var id string
	err = t.tx.QueryRow(ctx, `
		INSERT INTO crafting_logs
			(user_id, recipe_id, inputs, output, success, gold_spent, rarity_achieved, stat_variance, crafted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))
		RETURNING log_id::text`,
		log.UserID, log.RecipeID, inputs, output, log.Success, log.GoldSpent, rarity, variance, craftedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrMsgFailedToInsertLog, err)
	}
	return id, nil
}

// GetCraftingLogs returns the newest logs first
func (s *Store) GetCraftingLogs(ctx context.Context, userID string, limit int) ([]domain.CraftingLog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT log_id::text, user_id::text, recipe_id, inputs, output, success, gold_spent,
		       rarity_achieved, stat_variance, crafted_at
		FROM crafting_logs
		WHERE user_id = $1
		ORDER BY crafted_at DESC, log_id DESC
		LIMIT $2`,
		userID, limit)
	if err != nil {
		if missing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetCraftingLogs, err)
	}
	defer rows.Close()

	var out []domain.CraftingLog
	for rows.Next() {
		var l domain.CraftingLog
		var inputs, output, variance []byte
		var rarity *string
		if err := rows.Scan(&l.ID, &l.UserID, &l.RecipeID, &inputs, &output, &l.Success, &l.GoldSpent, &rarity, &variance, &l.CraftedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetCraftingLogs, err)
		}
		if err := json.Unmarshal(inputs, &l.Inputs); err != nil {
			return nil, fmt.Errorf(ErrMsgFailedToDecodeRow+": %w", "crafting log", err)
		}
		if len(output) > 0 {
			l.Output = &domain.CraftedItem{}
			if err := json.Unmarshal(output, l.Output); err != nil {
				return nil, fmt.Errorf(ErrMsgFailedToDecodeRow+": %w", "crafting log", err)
			}
		}
		if len(variance) > 0 {
			l.StatVariance = &domain.StatVariance{}
			if err := json.Unmarshal(variance, l.StatVariance); err != nil {
				return nil, fmt.Errorf(ErrMsgFailedToDecodeRow+": %w", "crafting log", err)
			}
		}
		if rarity != nil {
			r := domain.Rarity(*rarity)
			l.RarityAchieved = &r
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		if missing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetCraftingLogs, err)
	}
	return out, nil
}

// marshalNullable encodes v, mapping a nil pointer to SQL NULL
func marshalNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
