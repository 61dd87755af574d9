package domain

// Event type constants used for outbox rows and event bus subscriptions.
//
// Event types follow the pattern: <entity>.<action> (e.g., "item.sold")
const (
	// EventTypeCraftingComplete is enqueued for every crafting attempt, won or lost
	EventTypeCraftingComplete = "crafting.complete"

	// EventTypeItemSold is enqueued when an item is sold to the marketplace
	EventTypeItemSold = "item.sold"

	// EventTypeFeedItem carries a social feed entry
	EventTypeFeedItem = "feed.item"

	// EventTypeActivityLogged carries a user activity log entry
	EventTypeActivityLogged = "activity.logged"

	// EventTypeSeasonTierUp is enqueued when season XP crosses a tier threshold
	EventTypeSeasonTierUp = "season.tier_up"

	// EventTypeSeasonRewardClaimed is enqueued after a tier reward was granted
	EventTypeSeasonRewardClaimed = "season.reward_claimed"

	// EventTypePetLevelUp is enqueued when a pet gains a level
	EventTypePetLevelUp = "pet.level_up"
)

// Feed item types
const (
	FeedTypeCrafting = "crafting"
	FeedTypeSeason   = "season"
)

// Activity actions
const (
	ActivityCraftingSuccess = "crafting_success"
	ActivityCraftingFailed  = "crafting_failed"
	ActivityRarityUpgraded  = "rarity_upgraded"
	ActivityItemSold        = "item_sold"
	ActivityRewardClaimed   = "season_reward_claimed"
)

// Notification kinds
const (
	NotificationSeasonTierUp  = "season_tier_up"
	NotificationRewardClaimed = "season_reward_claimed"
	NotificationPetLevelUp    = "pet_level_up"
)
