package domain

// Rarity is an item or pet rarity tier.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// RarityOrder is the fixed total order of rarities, lowest first.
var RarityOrder = []Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityEpic,
	RarityLegendary,
}

// Rank returns the position of r in RarityOrder, or -1 for an unknown rarity.
func (r Rarity) Rank() int {
	for i, candidate := range RarityOrder {
		if candidate == r {
			return i
		}
	}
	return -1
}

// IsValid reports whether r is one of the known rarities.
func (r Rarity) IsValid() bool {
	return r.Rank() >= 0
}

// ItemStats are the granular combat stats of an item.
type ItemStats struct {
	HP    float64 `json:"hp"`
	Atk   float64 `json:"atk"`
	Def   float64 `json:"def"`
	Crit  float64 `json:"crit"`
	Speed float64 `json:"speed"`
}

// Item is immutable catalog data.
// Older items only carry the Power/Defense pair; newer ones carry Stats.
type Item struct {
	ID          string     `json:"item_id" validate:"required"`
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description,omitempty"`
	Rarity      Rarity     `json:"rarity" validate:"required,rarity"`
	Power       *int       `json:"power,omitempty" validate:"omitempty,gte=0"`
	Defense     *int       `json:"defense,omitempty" validate:"omitempty,gte=0"`
	Stats       *ItemStats `json:"stats,omitempty"`
	IsTradable  bool       `json:"is_tradable"`
}

// PowerValue returns Power or 0 when unset.
func (i *Item) PowerValue() int {
	if i.Power == nil {
		return 0
	}
	return *i.Power
}

// DefenseValue returns Defense or 0 when unset.
func (i *Item) DefenseValue() int {
	if i.Defense == nil {
		return 0
	}
	return *i.Defense
}
