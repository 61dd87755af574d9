package economy

import "github.com/osse101/Ascend_Go/internal/domain"

// Rarity base prices in gold
var rarityBasePrice = map[domain.Rarity]int64{
	domain.RarityCommon:    20,
	domain.RarityUncommon:  40,
	domain.RarityRare:      60,
	domain.RarityEpic:      150,
	domain.RarityLegendary: 400,
}

// Per-stat price weights
const (
	WeightHP    = 1
	WeightAtk   = 5
	WeightDef   = 5
	WeightCrit  = 10
	WeightSpeed = 8
)

// Split of a generic power value into granular stats
const (
	PowerHPShare  = "0.2"
	PowerAtkShare = "0.8"
)

// MinPrice is the lowest price any item can have
const MinPrice = 1

// Formatted error messages
const (
	ErrMsgInvalidQuantityFmt      = "invalid quantity: %d | %w"
	ErrMsgItemNotTradableFmt      = "item %s | %w"
	ErrMsgItemNotInInventoryFmt   = "item %s (have %d, need %d) | %w"
	ErrMsgGetItemFailed           = "failed to get item: %w"
	ErrMsgListItemsFailed         = "failed to list items: %w"
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgGetUserFailed           = "failed to get user: %w"
	ErrMsgGetInventoryFailed      = "failed to get inventory: %w"
	ErrMsgRemoveItemFailed        = "failed to remove item: %w"
	ErrMsgAddGoldFailed           = "failed to add gold: %w"
	ErrMsgEnqueueEventFailed      = "failed to enqueue event: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
)

// Log messages
const (
	LogMsgGetPriceListCalled = "GetPriceList called"
	LogMsgSellItemCalled     = "SellItem called"
	LogMsgSellRejected       = "Sell rejected"
	LogMsgItemSold           = "Item sold"
)
