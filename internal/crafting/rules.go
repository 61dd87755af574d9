package crafting

import (
	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/utils"
)

// NextRarity returns the rarity one step above r. Legendary and unknown
// rarities are returned unchanged.
func NextRarity(r domain.Rarity) domain.Rarity {
	rank := r.Rank()
	if rank < 0 || rank >= len(domain.RarityOrder)-1 {
		return r
	}
	return domain.RarityOrder[rank+1]
}

// RollSuccess draws from rnd in [0,1) scaled to [0,100) and compares it to successRate.
func RollSuccess(successRate float64, rnd func() float64) bool {
	return rnd()*SuccessRateScale < successRate
}

// varianceFactor maps a uniform [0,1) draw to a multiplier in [0.9, 1.1).
func varianceFactor(rnd func() float64) float64 {
	return 1 + (rnd()*2*StatVarianceRange - StatVarianceRange)
}

// ApplyStatVariance perturbs power and defense independently by up to ±10%
// and rounds them to integers. Absent stats stay absent and consume no draw.
func ApplyStatVariance(item domain.Item, rnd func() float64) (domain.CraftedItem, *domain.StatVariance) {
	crafted := domain.CraftedItem{
		ItemID: item.ID,
		Name:   item.Name,
		Rarity: item.Rarity,
	}

	if item.Power == nil && item.Defense == nil {
		return crafted, nil
	}

	variance := &domain.StatVariance{}
	if item.Power != nil {
		variance.PowerFactor = varianceFactor(rnd)
		v := utils.RoundHalfUp(float64(*item.Power) * variance.PowerFactor)
		crafted.Power = &v
	}
	if item.Defense != nil {
		variance.DefenseFactor = varianceFactor(rnd)
		v := utils.RoundHalfUp(float64(*item.Defense) * variance.DefenseFactor)
		crafted.Defense = &v
	}
	return crafted, variance
}
