package domain

import "time"

// PetType distinguishes what a pet can be used for.
type PetType string

const (
	PetTypePet       PetType = "pet"
	PetTypeCompanion PetType = "companion"
	PetTypeMount     PetType = "mount"
)

// PetBonuses are additive stat bonuses granted while a pet is equipped.
type PetBonuses struct {
	Atk    float64 `json:"atk_bonus"`
	Def    float64 `json:"def_bonus"`
	HP     float64 `json:"hp_bonus"`
	Crit   float64 `json:"crit_bonus"`
	Speed  float64 `json:"speed_bonus"`
	XP     float64 `json:"xp_bonus"`
	Gold   float64 `json:"gold_bonus"`
	Travel float64 `json:"travel_bonus"`
}

// Add returns the field-wise sum of b and other.
func (b PetBonuses) Add(other PetBonuses) PetBonuses {
	return PetBonuses{
		Atk:    b.Atk + other.Atk,
		Def:    b.Def + other.Def,
		HP:     b.HP + other.HP,
		Crit:   b.Crit + other.Crit,
		Speed:  b.Speed + other.Speed,
		XP:     b.XP + other.XP,
		Gold:   b.Gold + other.Gold,
		Travel: b.Travel + other.Travel,
	}
}

// Pet is a catalog entry for a pet, companion or mount.
type Pet struct {
	ID          string     `json:"pet_id" validate:"required"`
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description,omitempty"`
	Type        PetType    `json:"type" validate:"required,oneof=pet companion mount"`
	Rarity      Rarity     `json:"rarity" validate:"required,rarity"`
	Bonuses     PetBonuses `json:"bonuses"`
}

// UserPet is a user's owned instance of a catalog pet.
type UserPet struct {
	ID        string    `json:"user_pet_id"`
	UserID    string    `json:"user_id"`
	PetID     string    `json:"pet_id"`
	Level     int       `json:"level"`
	XP        int       `json:"xp"`
	Equipped  bool      `json:"equipped"`
	Nickname  *string   `json:"nickname,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnedPet joins a UserPet with its catalog entry.
type OwnedPet struct {
	UserPet
	Pet Pet `json:"pet"`
}

// PetXPNeeded is the XP required to leave level.
func PetXPNeeded(level int) int {
	return 10 * level
}
