package notification

// ==================== Log Messages ====================

const (
	LogMsgDispatcherRegistered = "Notification dispatcher registered"
	LogMsgMissingOutboxID      = "Notification event has no outbox id, skipping"
	LogMsgMissingUserID        = "Notification event has no user id, skipping"
	LogMsgMalformedPayload     = "Malformed notification payload, skipping"
	LogMsgUnmappedEvent        = "No notification kind for event type"
	LogMsgNotificationStored   = "Notification stored"
	LogMsgDuplicateDelivery    = "Duplicate notification delivery ignored"
)

// ==================== Error Messages ====================

const (
	ErrMsgInsertNotificationFailed = "failed to insert %s notification for event %d: %w"
)
