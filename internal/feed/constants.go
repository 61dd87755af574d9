package feed

// ==================== Log Messages ====================

const (
	LogMsgRecorderRegistered = "Feed recorder registered"
	LogMsgMissingOutboxID    = "Feed event has no outbox id, skipping"
	LogMsgMalformedPayload   = "Malformed feed payload, skipping"
	LogMsgFeedItemStored     = "Feed item stored"
	LogMsgActivityStored     = "Activity stored"
	LogMsgDuplicateDelivery  = "Duplicate delivery ignored"
)

// ==================== Error Messages ====================

const (
	ErrMsgInsertFeedItemFailed = "failed to insert feed item for event %d: %w"
	ErrMsgInsertActivityFailed = "failed to insert activity for event %d: %w"
)
