package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/Ascend_Go/internal/domain"
)

const (
	itemColumns   = `item_id, name, description, rarity, power, defense, stats, is_tradable`
	recipeColumns = `recipe_id, name, input_item_ids, output_item_id, gold_cost, unlock_level, success_rate, rarity_boost`
	petColumns    = `pet_id, name, description, type, rarity, bonuses`
)

func scanItem(row pgx.Row) (domain.Item, error) {
	var item domain.Item
	var rarity string
	var stats []byte
	if err := row.Scan(&item.ID, &item.Name, &item.Description, &rarity, &item.Power, &item.Defense, &stats, &item.IsTradable); err != nil {
		return item, err
	}
	item.Rarity = domain.Rarity(rarity)
	if len(stats) > 0 {
		item.Stats = &domain.ItemStats{}
		if err := json.Unmarshal(stats, item.Stats); err != nil {
			return item, fmt.Errorf(ErrMsgFailedToDecodeRow+": %w", "item", err)
		}
	}
	return item, nil
}

func scanRecipe(row pgx.Row) (domain.CraftingRecipe, error) {
	var r domain.CraftingRecipe
	err := row.Scan(&r.ID, &r.Name, &r.InputItemIDs, &r.OutputItemID, &r.GoldCost, &r.UnlockLevel, &r.SuccessRate, &r.RarityBoost)
	return r, err
}

func scanPet(row pgx.Row) (domain.Pet, error) {
	var p domain.Pet
	var petType, rarity string
	var bonuses []byte
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &petType, &rarity, &bonuses); err != nil {
		return p, err
	}
	p.Type = domain.PetType(petType)
	p.Rarity = domain.Rarity(rarity)
	if err := json.Unmarshal(bonuses, &p.Bonuses); err != nil {
		return p, fmt.Errorf(ErrMsgFailedToDecodeRow+": %w", "pet", err)
	}
	return p, nil
}

func (s *Store) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	item, err := scanItem(s.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE item_id = $1`, itemID))
	if err != nil {
		if missing(err) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetItem, err)
	}
	return &item, nil
}

func (s *Store) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListItems, err)
	}
	defer rows.Close()

	var out []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListItems, err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *Store) GetRecipe(ctx context.Context, recipeID string) (*domain.CraftingRecipe, error) {
	r, err := scanRecipe(s.pool.QueryRow(ctx, `SELECT `+recipeColumns+` FROM crafting_recipes WHERE recipe_id = $1`, recipeID))
	if err != nil {
		if missing(err) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetRecipe, err)
	}
	return &r, nil
}

func (s *Store) ListRecipes(ctx context.Context) ([]domain.CraftingRecipe, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+recipeColumns+` FROM crafting_recipes ORDER BY unlock_level, recipe_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListRecipes, err)
	}
	defer rows.Close()

	var out []domain.CraftingRecipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListRecipes, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) GetPet(ctx context.Context, petID string) (*domain.Pet, error) {
	p, err := scanPet(s.pool.QueryRow(ctx, `SELECT `+petColumns+` FROM pets WHERE pet_id = $1`, petID))
	if err != nil {
		if missing(err) {
			return nil, domain.ErrPetNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPet, err)
	}
	return &p, nil
}

func (s *Store) ListPets(ctx context.Context) ([]domain.Pet, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+petColumns+` FROM pets ORDER BY pet_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListPets, err)
	}
	defer rows.Close()

	var out []domain.Pet
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListPets, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetSeasonTiers(ctx context.Context, seasonID string) ([]domain.SeasonTier, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT season_id::text, tier, xp_required, free_reward, premium_reward
		FROM season_tiers WHERE season_id = $1 ORDER BY tier`, seasonID)
	if err != nil {
		if missing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTiers, err)
	}
	defer rows.Close()

	var out []domain.SeasonTier
	for rows.Next() {
		var tier domain.SeasonTier
		var free, premium []byte
		if err := rows.Scan(&tier.SeasonID, &tier.Tier, &tier.XPRequired, &free, &premium); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTiers, err)
		}
		tier.FreeReward = decodeReward(free)
		tier.PremiumReward = decodeReward(premium)
		out = append(out, tier)
	}
	if err := rows.Err(); err != nil {
		if missing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTiers, err)
	}
	return out, nil
}

// decodeReward keeps an undecodable descriptor as UnknownReward so the
// dispatcher logs it at claim time instead of every read failing
func decodeReward(raw []byte) domain.Reward {
	reward, err := domain.UnmarshalReward(raw)
	if err != nil {
		return domain.UnknownReward{Raw: append([]byte(nil), raw...)}
	}
	return reward
}

// ---- Catalog sync ----

func (s *Store) UpsertItem(ctx context.Context, item domain.Item) error {
	var stats []byte
	if item.Stats != nil {
		var err error
		if stats, err = json.Marshal(item.Stats); err != nil {
			return fmt.Errorf(ErrMsgFailedToEncodeColumn+": %w", "item stats", err)
		}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO items (item_id, name, description, rarity, power, defense, stats, is_tradable)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (item_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			rarity = EXCLUDED.rarity,
			power = EXCLUDED.power,
			defense = EXCLUDED.defense,
			stats = EXCLUDED.stats,
			is_tradable = EXCLUDED.is_tradable,
			updated_at = NOW()`,
		item.ID, item.Name, item.Description, string(item.Rarity), item.Power, item.Defense, stats, item.IsTradable)
	if err != nil {
		return fmt.Errorf(ErrMsgFailedToUpsert+": %w", "item", err)
	}
	return nil
}

func (s *Store) UpsertRecipe(ctx context.Context, r domain.CraftingRecipe) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO crafting_recipes (`+recipeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (recipe_id) DO UPDATE SET
			name = EXCLUDED.name,
			input_item_ids = EXCLUDED.input_item_ids,
			output_item_id = EXCLUDED.output_item_id,
			gold_cost = EXCLUDED.gold_cost,
			unlock_level = EXCLUDED.unlock_level,
			success_rate = EXCLUDED.success_rate,
			rarity_boost = EXCLUDED.rarity_boost`,
		r.ID, r.Name, r.InputItemIDs, r.OutputItemID, r.GoldCost, r.UnlockLevel, r.SuccessRate, r.RarityBoost)
	if err != nil {
		return fmt.Errorf(ErrMsgFailedToUpsert+": %w", "recipe", err)
	}
	return nil
}

func (s *Store) UpsertPet(ctx context.Context, p domain.Pet) error {
	bonuses, err := json.Marshal(p.Bonuses)
	if err != nil {
		return fmt.Errorf(ErrMsgFailedToEncodeColumn+": %w", "pet bonuses", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (pet_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			type = EXCLUDED.type,
			rarity = EXCLUDED.rarity,
			bonuses = EXCLUDED.bonuses`,
		p.ID, p.Name, p.Description, string(p.Type), string(p.Rarity), bonuses)
	if err != nil {
		return fmt.Errorf(ErrMsgFailedToUpsert+": %w", "pet", err)
	}
	return nil
}
