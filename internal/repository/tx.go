package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/osse101/Ascend_Go/internal/domain"
)

// Tx is the commit/rollback surface shared by every transaction type
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UserLedgerTx mutates user balances inside a transaction.
// GetUserForUpdate locks the user row until the transaction ends.
type UserLedgerTx interface {
	GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error)
	// AddGold fails with domain.ErrInsufficientFunds if the balance would go negative
	AddGold(ctx context.Context, userID string, delta decimal.Decimal) error
	AddDiamonds(ctx context.Context, userID string, delta int) error
}

// InventoryTx mutates inventory rows inside a transaction
type InventoryTx interface {
	GetInventoryQuantities(ctx context.Context, userID string, itemIDs []string) (map[string]int, error)
	AddInventoryItem(ctx context.Context, userID, itemID string, quantity int) error
	// RemoveInventoryItem deletes the row when it reaches zero and fails with
	// domain.ErrInsufficientQuantity if the user holds fewer than quantity units
	RemoveInventoryItem(ctx context.Context, userID, itemID string, quantity int) error
}

// OutboxWriter enqueues side-channel events in the current transaction
type OutboxWriter interface {
	EnqueueEvent(ctx context.Context, evt domain.OutboxEvent) error
}
