package economy

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/Ascend_Go/internal/domain"
)

var (
	powerHPShare  = decimal.RequireFromString(PowerHPShare)
	powerAtkShare = decimal.RequireFromString(PowerAtkShare)
)

// priceStats holds the granular stats used for pricing
type priceStats struct {
	hp, atk, def, crit, speed decimal.Decimal
}

// statsForPricing returns the item's granular stats. Items that only carry
// power/defense are converted: hp = power*0.2, atk = power*0.8, def = defense.
func statsForPricing(item domain.Item) priceStats {
	if item.Stats != nil {
		return priceStats{
			hp:    decimal.NewFromFloat(item.Stats.HP),
			atk:   decimal.NewFromFloat(item.Stats.Atk),
			def:   decimal.NewFromFloat(item.Stats.Def),
			crit:  decimal.NewFromFloat(item.Stats.Crit),
			speed: decimal.NewFromFloat(item.Stats.Speed),
		}
	}

	power := decimal.NewFromInt(int64(item.PowerValue()))
	return priceStats{
		hp:    power.Mul(powerHPShare),
		atk:   power.Mul(powerAtkShare),
		def:   decimal.NewFromInt(int64(item.DefenseValue())),
		crit:  decimal.Zero,
		speed: decimal.Zero,
	}
}

// CalculatePrice returns the gold value of an item: a rarity base plus a
// weighted sum of its stats, floored and never below MinPrice.
// Unknown rarities price as common.
func CalculatePrice(item domain.Item) int {
	base, ok := rarityBasePrice[item.Rarity]
	if !ok {
		base = rarityBasePrice[domain.RarityCommon]
	}

	s := statsForPricing(item)
	total := decimal.NewFromInt(base).
		Add(s.hp.Mul(decimal.NewFromInt(WeightHP))).
		Add(s.atk.Mul(decimal.NewFromInt(WeightAtk))).
		Add(s.def.Mul(decimal.NewFromInt(WeightDef))).
		Add(s.crit.Mul(decimal.NewFromInt(WeightCrit))).
		Add(s.speed.Mul(decimal.NewFromInt(WeightSpeed)))

	price := total.Floor().IntPart()
	if price < MinPrice {
		return MinPrice
	}
	return int(price)
}
