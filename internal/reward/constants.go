package reward

// ==================== Log Messages ====================

const (
	LogMsgGranting          = "Granting reward"
	LogMsgGranted           = "Reward granted"
	LogMsgNilReward         = "Nil reward, nothing to grant"
	LogMsgMalformedReward   = "Malformed reward descriptor, skipping grant"
	LogMsgUnimplementedType = "Reward type not implemented yet, recording intent only"
	LogMsgUnknownType       = "Unknown reward type, skipping grant"
)

// ==================== Error Messages ====================

const (
	ErrMsgGrantGoldFailed      = "failed to grant gold: %w"
	ErrMsgGrantDiamondsFailed  = "failed to grant diamonds: %w"
	ErrMsgGrantItemFailed      = "failed to grant item %s: %w"
	ErrMsgGrantCompanionFailed = "failed to grant companion %s: %w"
	ErrMsgNonPositiveAmountFmt = "%s amount %d | %w"
	ErrMsgMissingFieldFmt      = "%s reward without %s | %w"
)
