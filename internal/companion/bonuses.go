package companion

import (
	"context"
	"fmt"

	"github.com/osse101/Ascend_Go/internal/domain"
)

// SumBonuses adds up the bonuses of the equipped pets in pets
func SumBonuses(pets []domain.OwnedPet) domain.PetBonuses {
	var total domain.PetBonuses
	for _, p := range pets {
		if p.Equipped {
			total = total.Add(p.Pet.Bonuses)
		}
	}
	return total
}

// GetEquippedBonuses returns the combined bonuses of the user's equipped pets
func (s *service) GetEquippedBonuses(ctx context.Context, userID string) (domain.PetBonuses, error) {
	pets, err := s.repo.GetEquippedPets(ctx, userID)
	if err != nil {
		return domain.PetBonuses{}, fmt.Errorf(ErrMsgGetUserPetsFailed, err)
	}
	return SumBonuses(pets), nil
}
