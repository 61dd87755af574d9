package domain

// CraftingCompletePayload is the payload for crafting.complete events
type CraftingCompletePayload struct {
	UserID     string       `json:"user_id"`
	RecipeID   string       `json:"recipe_id"`
	RecipeName string       `json:"recipe_name"`
	Success    bool         `json:"success"`
	OutputItem *CraftedItem `json:"output_item,omitempty"`
	Rarity     *Rarity      `json:"rarity,omitempty"`
	GoldSpent  int          `json:"gold_spent"`
	Timestamp  int64        `json:"timestamp"`
}

// ItemSoldPayload is the payload for item.sold events
type ItemSoldPayload struct {
	UserID     string `json:"user_id"`
	ItemID     string `json:"item_id"`
	ItemName   string `json:"item_name"`
	Quantity   int    `json:"quantity"`
	TotalValue int    `json:"total_value"`
	Timestamp  int64  `json:"timestamp"`
}

// FeedItemPayload is the payload for feed.item events
type FeedItemPayload struct {
	UserID      string                 `json:"user_id"`
	Type        string                 `json:"type"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// ActivityLoggedPayload is the payload for activity.logged events
type ActivityLoggedPayload struct {
	UserID  string                 `json:"user_id"`
	Action  string                 `json:"action"`
	Summary string                 `json:"summary"`
	Detail  map[string]interface{} `json:"detail,omitempty"`
}

// SeasonTierUpPayload is the payload for season.tier_up events
type SeasonTierUpPayload struct {
	UserID     string `json:"user_id"`
	SeasonID   string `json:"season_id"`
	SeasonName string `json:"season_name"`
	OldTier    int    `json:"old_tier"`
	NewTier    int    `json:"new_tier"`
}

// SeasonRewardClaimedPayload is the payload for season.reward_claimed events
type SeasonRewardClaimedPayload struct {
	UserID     string     `json:"user_id"`
	SeasonID   string     `json:"season_id"`
	Tier       int        `json:"tier"`
	Track      Track      `json:"track"`
	RewardType RewardType `json:"reward_type"`
}

// PetLevelUpPayload is the payload for pet.level_up events
type PetLevelUpPayload struct {
	UserID    string `json:"user_id"`
	UserPetID string `json:"user_pet_id"`
	PetID     string `json:"pet_id"`
	PetName   string `json:"pet_name"`
	NewLevel  int    `json:"new_level"`
}
