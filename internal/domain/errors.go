package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound  = "user not found"
	ErrMsgUsernameTaken = "username already taken"

	// Item errors
	ErrMsgItemNotFound = "item not found"
	ErrMsgNotTradable  = "item is not tradable"

	// Inventory errors
	ErrMsgInsufficientQuantity = "insufficient quantity"
	ErrMsgInvalidQuantity      = "quantity must be positive"

	// Economy errors
	ErrMsgInsufficientFunds = "insufficient gold"

	// Crafting errors
	ErrMsgRecipeNotFound    = "recipe not found"
	ErrMsgLevelTooLow       = "level too low"
	ErrMsgMissingMaterials  = "missing required items"
	ErrMsgCraftingFailed    = "crafting failed - materials lost!"
	ErrMsgInvalidRecipe     = "invalid recipe"
	ErrMsgInvalidSuccessPct = "success rate must be between 0 and 100"
	ErrMsgMaxRarity         = "item is already at maximum rarity"
	ErrMsgNoUpgradePath     = "no catalog item at the next rarity"

	// Pet errors
	ErrMsgPetNotFound           = "pet not found"
	ErrMsgPetNotOwned           = "pet not owned by user"
	ErrMsgNotCompanion          = "only companions can be equipped"
	ErrMsgNicknameTooLong       = "nickname must be 50 characters or less"
	ErrMsgInappropriateNickname = "nickname contains inappropriate content"
	ErrMsgInvalidPetXPAmount    = "pet xp amount must not be negative"

	// Season errors
	ErrMsgNoActiveSeason     = "no active season"
	ErrMsgSeasonNotFound     = "season not found"
	ErrMsgProgressNotFound   = "no progress found for this season"
	ErrMsgTierNotReached     = "tier not reached yet"
	ErrMsgAlreadyClaimed     = "reward already claimed"
	ErrMsgPremiumRequired    = "premium subscription required"
	ErrMsgTierNotFound       = "tier not found"
	ErrMsgRewardNotFound     = "reward not found"
	ErrMsgInvalidXPAmount    = "xp amount must not be negative"
	ErrMsgInvalidTrack       = "invalid reward track"
	ErrMsgInvalidRewardShape = "invalid reward descriptor"

	// Database/System errors
	ErrMsgDatabaseError = "database error"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// User errors
	ErrUserNotFound  = errors.New(ErrMsgUserNotFound)
	ErrUsernameTaken = errors.New(ErrMsgUsernameTaken)

	// Item errors
	ErrItemNotFound = errors.New(ErrMsgItemNotFound)
	ErrNotTradable  = errors.New(ErrMsgNotTradable)

	// Inventory errors
	ErrInsufficientQuantity = errors.New(ErrMsgInsufficientQuantity)
	ErrInvalidQuantity      = errors.New(ErrMsgInvalidQuantity)

	// Economy errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)

	// Crafting errors
	ErrRecipeNotFound   = errors.New(ErrMsgRecipeNotFound)
	ErrLevelTooLow      = errors.New(ErrMsgLevelTooLow)
	ErrMissingMaterials = errors.New(ErrMsgMissingMaterials)
	ErrInvalidRecipe    = errors.New(ErrMsgInvalidRecipe)
	ErrMaxRarity        = errors.New(ErrMsgMaxRarity)
	ErrNoUpgradePath    = errors.New(ErrMsgNoUpgradePath)

	// Pet errors
	ErrPetNotFound           = errors.New(ErrMsgPetNotFound)
	ErrPetNotOwned           = errors.New(ErrMsgPetNotOwned)
	ErrNotCompanion          = errors.New(ErrMsgNotCompanion)
	ErrNicknameTooLong       = errors.New(ErrMsgNicknameTooLong)
	ErrInappropriateNickname = errors.New(ErrMsgInappropriateNickname)
	ErrInvalidPetXPAmount    = errors.New(ErrMsgInvalidPetXPAmount)

	// Season errors
	ErrNoActiveSeason   = errors.New(ErrMsgNoActiveSeason)
	ErrSeasonNotFound   = errors.New(ErrMsgSeasonNotFound)
	ErrProgressNotFound = errors.New(ErrMsgProgressNotFound)
	ErrTierNotReached   = errors.New(ErrMsgTierNotReached)
	ErrAlreadyClaimed   = errors.New(ErrMsgAlreadyClaimed)
	ErrPremiumRequired  = errors.New(ErrMsgPremiumRequired)
	ErrTierNotFound     = errors.New(ErrMsgTierNotFound)
	ErrRewardNotFound   = errors.New(ErrMsgRewardNotFound)
	ErrInvalidXPAmount  = errors.New(ErrMsgInvalidXPAmount)
	ErrInvalidTrack     = errors.New(ErrMsgInvalidTrack)
	ErrInvalidReward    = errors.New(ErrMsgInvalidRewardShape)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

// ErrorKind groups domain errors by how a caller should react to them.
type ErrorKind int

const (
	// KindTransient covers infrastructure failures; the operation may be retried.
	KindTransient ErrorKind = iota
	KindNotFound
	KindPrecondition
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPrecondition:
		return "precondition"
	case KindConflict:
		return "conflict"
	default:
		return "transient"
	}
}

var (
	notFoundErrors = []error{
		ErrUserNotFound, ErrItemNotFound, ErrRecipeNotFound, ErrPetNotFound,
		ErrSeasonNotFound, ErrProgressNotFound, ErrTierNotFound, ErrRewardNotFound,
		ErrNoActiveSeason,
	}
	conflictErrors = []error{
		ErrAlreadyClaimed, ErrUsernameTaken,
	}
	preconditionErrors = []error{
		ErrLevelTooLow, ErrInsufficientFunds, ErrMissingMaterials, ErrInsufficientQuantity,
		ErrNotTradable, ErrPetNotOwned, ErrNotCompanion, ErrNicknameTooLong,
		ErrInappropriateNickname, ErrTierNotReached, ErrPremiumRequired, ErrInvalidXPAmount,
		ErrInvalidPetXPAmount, ErrInvalidQuantity, ErrInvalidTrack, ErrInvalidInput,
		ErrInvalidRecipe, ErrInvalidReward, ErrMaxRarity, ErrNoUpgradePath,
	}
)

// Kind classifies err. Errors that match no domain sentinel are KindTransient.
func Kind(err error) ErrorKind {
	if err == nil {
		return KindTransient
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return KindNotFound
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return KindConflict
		}
	}
	for _, target := range preconditionErrors {
		if errors.Is(err, target) {
			return KindPrecondition
		}
	}
	return KindTransient
}
