package domain

import "time"

// CraftingRecipe turns a multiset of input items plus gold into one output item.
type CraftingRecipe struct {
	ID           string   `json:"recipe_id" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	InputItemIDs []string `json:"input_item_ids" validate:"required,min=1,dive,required"`
	OutputItemID string   `json:"output_item_id" validate:"required"`
	GoldCost     int      `json:"gold_cost" validate:"gte=0"`
	UnlockLevel  int      `json:"unlock_level" validate:"gte=0"`
	SuccessRate  float64  `json:"success_rate" validate:"gte=0,lte=100"`
	RarityBoost  bool     `json:"rarity_boost"`
}

// RequiredInputs collapses InputItemIDs into a per-item quantity.
func (r *CraftingRecipe) RequiredInputs() map[string]int {
	required := make(map[string]int, len(r.InputItemIDs))
	for _, id := range r.InputItemIDs {
		required[id]++
	}
	return required
}

// CraftedItem is the concrete item produced by a successful craft.
type CraftedItem struct {
	ItemID  string `json:"item_id"`
	Name    string `json:"name"`
	Rarity  Rarity `json:"rarity"`
	Power   *int   `json:"power,omitempty"`
	Defense *int   `json:"defense,omitempty"`
}

// CraftingLogInput is a snapshot of one consumed input.
type CraftingLogInput struct {
	ItemID string `json:"id"`
	Name   string `json:"name"`
	Rarity Rarity `json:"rarity"`
}

// StatVariance records the multipliers rolled for a crafted item.
type StatVariance struct {
	PowerFactor   float64 `json:"power_factor"`
	DefenseFactor float64 `json:"defense_factor"`
}

// CraftingLog is the append-only audit record of one crafting attempt.
type CraftingLog struct {
	ID             string             `json:"log_id"`
	UserID         string             `json:"user_id"`
	RecipeID       string             `json:"recipe_id"`
	Inputs         []CraftingLogInput `json:"inputs"`
	Output         *CraftedItem       `json:"output,omitempty"`
	Success        bool               `json:"success"`
	GoldSpent      int                `json:"gold_spent"`
	RarityAchieved *Rarity            `json:"rarity_achieved,omitempty"`
	StatVariance   *StatVariance      `json:"stat_variance,omitempty"`
	CraftedAt      time.Time          `json:"crafted_at"`
}
