package repository

import "context"

// Economy defines the interface for marketplace persistence
type Economy interface {
	BeginTx(ctx context.Context) (EconomyTx, error)
}

// EconomyTx defines the interface for economy transactions
type EconomyTx interface {
	Tx
	UserLedgerTx
	InventoryTx
	OutboxWriter
}
