package season

import (
	"fmt"
	"sort"

	"github.com/osse101/Ascend_Go/internal/domain"
)

// DeriveTier returns the highest tier whose threshold xp meets, or 0.
// tiers may be in any order.
func DeriveTier(tiers []domain.SeasonTier, xp int) int {
	best := 0
	for _, t := range tiers {
		if t.XPRequired <= xp && t.Tier > best {
			best = t.Tier
		}
	}
	return best
}

// nextTier returns the tier after current in tier order, or nil at the top
func nextTier(tiers []domain.SeasonTier, current int) *domain.SeasonTier {
	var next *domain.SeasonTier
	for i := range tiers {
		t := &tiers[i]
		if t.Tier > current && (next == nil || t.Tier < next.Tier) {
			next = t
		}
	}
	return next
}

func findTier(tiers []domain.SeasonTier, tier int) *domain.SeasonTier {
	for i := range tiers {
		if tiers[i].Tier == tier {
			return &tiers[i]
		}
	}
	return nil
}

// validateTiers checks tier numbers are positive and unique, and thresholds
// strictly increase with the tier number. tiers is sorted in place.
func validateTiers(tiers []domain.SeasonTier) error {
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Tier < tiers[j].Tier })
	for i, t := range tiers {
		if t.Tier <= 0 {
			return fmt.Errorf(ErrMsgTierNumberFmt, t.Tier, domain.ErrInvalidInput)
		}
		if i == 0 {
			continue
		}
		prev := tiers[i-1]
		if prev.Tier == t.Tier {
			return fmt.Errorf(ErrMsgDuplicateTierFmt, t.Tier, domain.ErrInvalidInput)
		}
		if t.XPRequired <= prev.XPRequired {
			return fmt.Errorf(ErrMsgTierOrderFmt, t.Tier, t.XPRequired, prev.Tier, domain.ErrInvalidInput)
		}
	}
	return nil
}
