package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/osse101/Ascend_Go/internal/domain"
)

// Outbox defines the interface used by the outbox relay
type Outbox interface {
	CountPending(ctx context.Context) (int, error)
	// DeleteDispatchedBefore removes dispatched events older than cutoff.
	// Pending events are never removed.
	DeleteDispatchedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	BeginTx(ctx context.Context) (OutboxTx, error)
}

// OutboxTx claims pending events so concurrent relays skip them
type OutboxTx interface {
	Tx
	LockPending(ctx context.Context, limit int) ([]domain.OutboxEvent, error)
	MarkDispatched(ctx context.Context, ids []int64) error
}

// Feed persists social feed entries and activity logs. Rows are keyed by the
// outbox event id; a redelivered event inserts nothing and reports false.
type Feed interface {
	InsertFeedItem(ctx context.Context, eventID int64, item domain.FeedItemPayload) (bool, error)
	InsertActivity(ctx context.Context, eventID int64, activity domain.ActivityLoggedPayload) (bool, error)
}

// Notifications persists user notifications, keyed by outbox event id
type Notifications interface {
	InsertNotification(ctx context.Context, eventID int64, userID, kind string, payload json.RawMessage) (bool, error)
}
