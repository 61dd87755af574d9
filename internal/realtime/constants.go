package realtime

import "time"

// Channel naming
const (
	DefaultChannelPrefix = "ascend:"
	ChannelUserFmt       = "user:%s"
	ChannelFeed          = "feed"
)

// DefaultPingTimeout bounds the startup connectivity check
const DefaultPingTimeout = 5 * time.Second

// ==================== Log Messages ====================

const (
	LogMsgForwarderRegistered = "Realtime forwarder registered"
	LogMsgForwardFailed       = "Realtime publish failed"
	LogMsgForwarded           = "Event forwarded to realtime channel"
	LogMsgNoRecipient         = "Realtime event has no user id, skipping"
)

// ==================== Error Messages ====================

const (
	ErrMsgMarshalFailed = "failed to marshal realtime message: %w"
	ErrMsgPublishFailed = "failed to publish to %s: %w"
	ErrMsgConnectFailed = "failed to connect to redis at %s: %w"
)
