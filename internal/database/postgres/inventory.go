package postgres

import (
	"context"
	"fmt"

	"github.com/osse101/Ascend_Go/internal/domain"
)

// GetInventoryQuantities locks and returns the rows for itemIDs. Items the
// user does not hold are absent from the map.
func (t *Tx) GetInventoryQuantities(ctx context.Context, userID string, itemIDs []string) (map[string]int, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT item_id, quantity FROM inventory_items
		WHERE user_id = $1 AND item_id = ANY($2)
		FOR UPDATE`,
		userID, itemIDs)
	if err != nil {
		if missing(err) {
			return map[string]int{}, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetInventory, err)
	}
	defer rows.Close()

	out := make(map[string]int, len(itemIDs))
	for rows.Next() {
		var itemID string
		var qty int
		if err := rows.Scan(&itemID, &qty); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetInventory, err)
		}
		out[itemID] = qty
	}
	if err := rows.Err(); err != nil {
		if missing(err) {
			return map[string]int{}, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetInventory, err)
	}
	return out, nil
}

// AddInventoryItem adds to an existing row or creates it
func (t *Tx) AddInventoryItem(ctx context.Context, userID, itemID string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	tag, err := t.tx.Exec(ctx, `
		INSERT INTO inventory_items (user_id, item_id, quantity)
		SELECT $1, item_id, $3 FROM items WHERE item_id = $2
		ON CONFLICT (user_id, item_id)
		DO UPDATE SET quantity = inventory_items.quantity + EXCLUDED.quantity`,
		userID, itemID, quantity)
	if err != nil {
		if missing(err) || pgCode(err) == PgErrorCodeForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateInventory, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// RemoveInventoryItem deletes the row when the last units go
func (t *Tx) RemoveInventoryItem(ctx context.Context, userID, itemID string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	tag, err := t.tx.Exec(ctx, `
		DELETE FROM inventory_items WHERE user_id = $1 AND item_id = $2 AND quantity = $3`,
		userID, itemID, quantity)
	if err != nil {
		if missing(err) {
			return domain.ErrInsufficientQuantity
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateInventory, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	tag, err = t.tx.Exec(ctx, `
		UPDATE inventory_items SET quantity = quantity - $3
		WHERE user_id = $1 AND item_id = $2 AND quantity > $3`,
		userID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateInventory, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientQuantity
	}
	return nil
}
