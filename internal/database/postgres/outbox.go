package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/Ascend_Go/internal/domain"
)

// EnqueueEvent writes evt in the caller's transaction; it becomes visible to
// the relay only on commit
func (t *Tx) EnqueueEvent(ctx context.Context, evt domain.OutboxEvent) error {
	payload := evt.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	_, err := t.tx.Exec(ctx, `INSERT INTO outbox_events (type, payload) VALUES ($1, $2)`, evt.Type, []byte(payload))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToEnqueueEvent, err)
	}
	return nil
}

// LockPending claims up to limit undispatched events in id order. Rows held
// by another relay are skipped.
func (t *Tx) LockPending(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT id, type, payload, created_at
		FROM outbox_events
		WHERE dispatched_at IS NULL
		ORDER BY id
		LIMIT $1
		FOR UPDATE SKIP LOCKED`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToLockPending, err)
	}

	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.OutboxEvent, error) {
		var evt domain.OutboxEvent
		var payload []byte
		if err := row.Scan(&evt.ID, &evt.Type, &payload, &evt.CreatedAt); err != nil {
			return evt, err
		}
		evt.Payload = payload
		return evt, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToLockPending, err)
	}
	return events, nil
}

func (t *Tx) MarkDispatched(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := t.tx.Exec(ctx, `
		UPDATE outbox_events SET dispatched_at = NOW()
		WHERE id = ANY($1) AND dispatched_at IS NULL`,
		ids)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarkDispatched, err)
	}
	return nil
}

func (s *Store) CountPending(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox_events WHERE dispatched_at IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCountPending, err)
	}
	return n, nil
}

// DeleteDispatchedBefore prunes dispatched events older than cutoff
func (s *Store) DeleteDispatchedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM outbox_events
		WHERE dispatched_at IS NOT NULL AND dispatched_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToPruneOutbox, err)
	}
	return tag.RowsAffected(), nil
}

// InsertFeedItem reports false when eventID was already recorded
func (s *Store) InsertFeedItem(ctx context.Context, eventID int64, item domain.FeedItemPayload) (bool, error) {
	metadata, err := marshalMap(item.Metadata)
	if err != nil {
		return false, fmt.Errorf(ErrMsgFailedToEncodeColumn+": %w", "feed metadata", err)
	}
	return s.insertSinkRow(ctx, sinkFeed, `
		INSERT INTO feed_items (event_id, user_id, type, title, description, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id) DO NOTHING`,
		eventID, item.UserID, item.Type, item.Title, item.Description, metadata)
}

func (s *Store) InsertActivity(ctx context.Context, eventID int64, activity domain.ActivityLoggedPayload) (bool, error) {
	detail, err := marshalMap(activity.Detail)
	if err != nil {
		return false, fmt.Errorf(ErrMsgFailedToEncodeColumn+": %w", "activity detail", err)
	}
	return s.insertSinkRow(ctx, sinkActivity, `
		INSERT INTO activity_log (event_id, user_id, action, summary, detail)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id) DO NOTHING`,
		eventID, activity.UserID, activity.Action, activity.Summary, detail)
}

func (s *Store) InsertNotification(ctx context.Context, eventID int64, userID, kind string, payload json.RawMessage) (bool, error) {
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	return s.insertSinkRow(ctx, sinkNotification, `
		INSERT INTO notifications (event_id, user_id, kind, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, kind) DO NOTHING`,
		eventID, userID, kind, []byte(payload))
}

func (s *Store) insertSinkRow(ctx context.Context, sink, query string, args ...interface{}) (bool, error) {
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf(ErrMsgFailedToInsertSinkRow+": %w", sink, err)
	}
	return tag.RowsAffected() == 1, nil
}

func marshalMap(m map[string]interface{}) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}
