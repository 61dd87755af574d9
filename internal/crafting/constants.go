package crafting

import "github.com/osse101/Ascend_Go/internal/domain"

// ==================== Crafting Mechanics ====================

// StatVarianceRange is the maximum relative deviation applied to crafted stats (±10%)
const StatVarianceRange = 0.10

// SuccessRateScale is the scale successRate is expressed in
const SuccessRateScale = 100.0

// UpgradeLogRecipeID marks crafting log rows written by a rarity upgrade
const UpgradeLogRecipeID = "rarity_upgrade"

// upgradeCopies is how many copies of an item one rarity upgrade consumes, keyed by the current rarity
var upgradeCopies = map[domain.Rarity]int{
	domain.RarityCommon:   3,
	domain.RarityUncommon: 3,
	domain.RarityRare:     4,
	domain.RarityEpic:     5,
}

// History limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// ==================== User Messages ====================

const (
	MsgCraftedFmt        = "Crafted %s!"
	MsgCraftingFailed    = "Crafting failed - materials lost!"
	FeedTitleCraftedFmt  = "Crafted %s %s!"
	FeedRarityUpgraded   = "🌟 Rarity upgraded!"
	ActivityCraftedFmt   = "Crafted %s"
	ActivityCraftFailFmt = "Failed to craft %s"
	MsgUpgradedFmt       = "Upgraded %s to %s!"
	FeedTitleUpgradedFmt = "Upgraded %s to %s!"
	ActivityUpgradedFmt  = "Upgraded %d x %s to %s"
)

// ==================== Error Messages ====================

const (
	ErrMsgGetRecipeFailed         = "failed to get recipe: %w"
	ErrMsgGetItemFailed           = "failed to get item: %w"
	ErrMsgInvalidSuccessRateFmt   = "recipe %s success rate %.2f | %w"
	ErrMsgLevelRequiredFmt        = "level %d required | %w"
	ErrMsgGoldRequiredFmt         = "insufficient gold (need %d) | %w"
	ErrMsgMissingItemFmt          = "missing %s (have %d, need %d) | %w"
	ErrMsgResolveItemFailedFmt    = "recipe %s references item %s: %v | %w"
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgGetUserFailed           = "failed to get user: %w"
	ErrMsgGetInventoryFailed      = "failed to get inventory: %w"
	ErrMsgDebitGoldFailed         = "failed to debit gold: %w"
	ErrMsgConsumeItemFailed       = "failed to consume %s: %w"
	ErrMsgAddOutputFailed         = "failed to add crafted item: %w"
	ErrMsgInsertLogFailed         = "failed to insert crafting log: %w"
	ErrMsgEnqueueEventFailed      = "failed to enqueue event: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgListRecipesFailed       = "failed to list recipes: %w"
	ErrMsgGetHistoryFailed        = "failed to get crafting history: %w"
	ErrMsgListItemsFailed         = "failed to list items: %w"
	ErrMsgMaxRarityFmt            = "%s is %s | %w"
	ErrMsgNoUpgradePathFmt        = "%s has no %s variant | %w"
	ErrMsgUpgradeCopiesFmt        = "upgrade needs %d x %s (have %d) | %w"
)

// ==================== Log Messages ====================

const (
	LogMsgCraftCalled      = "Craft called"
	LogMsgCraftRejected    = "Craft rejected"
	LogMsgCraftSucceeded   = "Craft succeeded"
	LogMsgCraftFailed      = "Craft failed roll"
	LogMsgCraftTxFailed    = "Craft transaction failed"
	LogMsgRecipesRequested = "GetAvailableRecipes called"
	LogMsgUpgradeCalled    = "UpgradeRarity called"
	LogMsgUpgradeRejected  = "UpgradeRarity rejected"
	LogMsgUpgradeSucceeded = "UpgradeRarity succeeded"
)
