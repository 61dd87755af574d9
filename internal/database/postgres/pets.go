package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/Ascend_Go/internal/domain"
)

const userPetColumns = `up.user_pet_id::text, up.user_id::text, up.pet_id, up.level, up.xp, up.equipped, up.nickname, up.created_at`

func scanUserPet(row pgx.Row) (domain.UserPet, error) {
	var up domain.UserPet
	err := row.Scan(&up.ID, &up.UserID, &up.PetID, &up.Level, &up.XP, &up.Equipped, &up.Nickname, &up.CreatedAt)
	return up, err
}

func (s *Store) ownedPets(ctx context.Context, userID string, equippedOnly bool) ([]domain.OwnedPet, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+userPetColumns+`, p.name, p.description, p.type, p.rarity, p.bonuses
		FROM user_pets up
		JOIN pets p ON p.pet_id = up.pet_id
		WHERE up.user_id = $1 AND (up.equipped OR NOT $2)
		ORDER BY up.equipped DESC, up.created_at DESC`,
		userID, equippedOnly)
	if err != nil {
		if missing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetUserPets, err)
	}
	defer rows.Close()

	var out []domain.OwnedPet
	for rows.Next() {
		var op domain.OwnedPet
		var petType, rarity string
		var bonuses []byte
		if err := rows.Scan(
			&op.ID, &op.UserID, &op.PetID, &op.Level, &op.XP, &op.Equipped, &op.Nickname, &op.CreatedAt,
			&op.Pet.Name, &op.Pet.Description, &petType, &rarity, &bonuses,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetUserPets, err)
		}
		op.Pet.ID = op.PetID
		op.Pet.Type = domain.PetType(petType)
		op.Pet.Rarity = domain.Rarity(rarity)
		if err := json.Unmarshal(bonuses, &op.Pet.Bonuses); err != nil {
			return nil, fmt.Errorf(ErrMsgFailedToDecodeRow+": %w", "pet", err)
		}
		out = append(out, op)
	}
	if err := rows.Err(); err != nil {
		if missing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetUserPets, err)
	}
	return out, nil
}

// GetUserPets returns equipped pets first, then newest first
func (s *Store) GetUserPets(ctx context.Context, userID string) ([]domain.OwnedPet, error) {
	return s.ownedPets(ctx, userID, false)
}

func (s *Store) GetEquippedPets(ctx context.Context, userID string) ([]domain.OwnedPet, error) {
	return s.ownedPets(ctx, userID, true)
}

// FindUserPet returns the oldest instance of petID the user owns, or nil
func (t *Tx) FindUserPet(ctx context.Context, userID, petID string) (*domain.UserPet, error) {
	up, err := scanUserPet(t.tx.QueryRow(ctx, `
		SELECT `+userPetColumns+` FROM user_pets up
		WHERE up.user_id = $1 AND up.pet_id = $2
		ORDER BY up.created_at
		LIMIT 1`,
		userID, petID))
	if err != nil {
		if missing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetUserPets, err)
	}
	return &up, nil
}

// InsertUserPet always creates a new level 1 row
func (t *Tx) InsertUserPet(ctx context.Context, userID, petID string) (string, error) {
	var id string
	err := t.tx.QueryRow(ctx, `
		INSERT INTO user_pets (user_id, pet_id)
		SELECT $1, pet_id FROM pets WHERE pet_id = $2
		RETURNING user_pet_id::text`,
		userID, petID).Scan(&id)
	if err != nil {
		switch {
		case missing(err) && pgCode(err) == "":
			return "", domain.ErrPetNotFound
		case missing(err), pgCode(err) == PgErrorCodeForeignKeyViolation:
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("%s: %w", ErrMsgFailedToInsertUserPet, err)
	}
	return id, nil
}

func (t *Tx) GetUserPetForUpdate(ctx context.Context, userPetID string) (*domain.UserPet, error) {
	up, err := scanUserPet(t.tx.QueryRow(ctx, `
		SELECT `+userPetColumns+` FROM user_pets up WHERE up.user_pet_id = $1 FOR UPDATE`, userPetID))
	if err != nil {
		if missing(err) {
			return nil, domain.ErrPetNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetUserPets, err)
	}
	return &up, nil
}

func (t *Tx) UnequipAllPets(ctx context.Context, userID string) error {
	if _, err := t.tx.Exec(ctx, `UPDATE user_pets SET equipped = FALSE WHERE user_id = $1 AND equipped`, userID); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateUserPet, err)
	}
	return nil
}

func (t *Tx) updatePet(ctx context.Context, query string, args ...interface{}) error {
	tag, err := t.tx.Exec(ctx, query, args...)
	if err != nil {
		if missing(err) {
			return domain.ErrPetNotFound
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateUserPet, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPetNotFound
	}
	return nil
}

func (t *Tx) SetPetEquipped(ctx context.Context, userPetID string, equipped bool) error {
	return t.updatePet(ctx, `UPDATE user_pets SET equipped = $2 WHERE user_pet_id = $1`, userPetID, equipped)
}

func (t *Tx) UpdatePetProgress(ctx context.Context, userPetID string, level, xp int) error {
	return t.updatePet(ctx, `UPDATE user_pets SET level = $2, xp = $3 WHERE user_pet_id = $1`, userPetID, level, xp)
}

// SetPetNickname stores nickname; nil clears it
func (t *Tx) SetPetNickname(ctx context.Context, userPetID string, nickname *string) error {
	return t.updatePet(ctx, `UPDATE user_pets SET nickname = $2 WHERE user_pet_id = $1`, userPetID, nickname)
}
