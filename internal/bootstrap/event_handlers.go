package bootstrap

import (
	"context"
	"fmt"

	"github.com/osse101/Ascend_Go/internal/config"
	"github.com/osse101/Ascend_Go/internal/event"
	"github.com/osse101/Ascend_Go/internal/feed"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/metrics"
	"github.com/osse101/Ascend_Go/internal/notification"
	"github.com/osse101/Ascend_Go/internal/realtime"
	"github.com/osse101/Ascend_Go/internal/repository"
)

// EventHandlerDependencies holds what the side-channel sinks need
type EventHandlerDependencies struct {
	EventBus      event.Bus
	Feed          repository.Feed
	Notifications repository.Notifications
	// Realtime is nil when Redis is not configured
	Realtime *realtime.Publisher
}

// RegisterEventHandlers subscribes every consumer of relayed outbox events:
// - Feed recorder (feed_items and activity_log)
// - Notification dispatcher
// - Metrics collector
// - Realtime forwarder, when Redis is configured
func RegisterEventHandlers(deps EventHandlerDependencies) {
	feed.NewRecorder(deps.Feed).Register(deps.EventBus)
	logger.Info(LogMsgFeedRecorderRegistered)

	notification.NewDispatcher(deps.Notifications).Register(deps.EventBus)
	logger.Info(LogMsgNotificationsRegistered)

	metrics.NewEventMetricsCollector().Register(deps.EventBus)
	logger.Info(LogMsgMetricsCollectorRegistered)

	if deps.Realtime == nil {
		logger.Info(LogMsgRealtimeDisabled)
		return
	}
	realtime.NewForwarder(deps.Realtime).Register(deps.EventBus)
}

// ConnectRealtime dials Redis and returns the realtime publisher, or nil when
// REDIS_ADDR is unset
func ConnectRealtime(ctx context.Context, cfg *config.Config) (*realtime.Publisher, error) {
	if !cfg.RedisEnabled() {
		return nil, nil
	}
	client, err := realtime.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectRedis, err)
	}
	logger.Info(LogMsgRealtimeConnected, "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return realtime.NewPublisher(client, realtime.DefaultChannelPrefix), nil
}
