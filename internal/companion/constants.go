package companion

// MaxNicknameLength is the nickname limit in characters
const MaxNicknameLength = 50

// ==================== Error Messages ====================

const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgGetPetFailed            = "failed to get pet: %w"
	ErrMsgLockUserFailed          = "failed to lock user: %w"
	ErrMsgFindUserPetFailed       = "failed to find user pet: %w"
	ErrMsgInsertUserPetFailed     = "failed to insert user pet: %w"
	ErrMsgGetUserPetFailed        = "failed to get user pet: %w"
	ErrMsgUnequipFailed           = "failed to unequip pets: %w"
	ErrMsgEquipFailed             = "failed to equip pet: %w"
	ErrMsgUpdateProgressFailed    = "failed to update pet progress: %w"
	ErrMsgSetNicknameFailed       = "failed to set nickname: %w"
	ErrMsgGetUserPetsFailed       = "failed to get user pets: %w"
	ErrMsgEnqueueEventFailed      = "failed to enqueue event: %w"
	ErrMsgPetXPFmt                = "pet xp amount %d | %w"
	ErrMsgNotOwnedFmt             = "user pet %s | %w"
	ErrMsgNotCompanionFmt         = "pet %s is a %s | %w"
	ErrMsgGrantAllFailedFmt       = "failed to grant xp to %d of %d pets: %w"
)

// ==================== Log Messages ====================

const (
	LogMsgPetUnlocked        = "Pet unlocked"
	LogMsgPetAlreadyUnlocked = "Pet already unlocked"
	LogMsgCompanionEquipped  = "Companion equipped"
	LogMsgCompanionUnequip   = "Companion unequipped"
	LogMsgUnequipSkipped     = "Unequip skipped"
	LogMsgPetXPGranted       = "Pet XP granted"
	LogMsgPetLeveledUp       = "Pet leveled up"
	LogMsgGrantPetXPFailed   = "Failed to grant XP to pet"
	LogMsgPetRenamed         = "Pet renamed"
	LogMsgRenameRejected     = "Rename rejected"
	LogMsgEquipRejected      = "Equip rejected"
)
