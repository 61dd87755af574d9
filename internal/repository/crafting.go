package repository

import (
	"context"

	"github.com/osse101/Ascend_Go/internal/domain"
)

// Crafting defines the interface for crafting persistence
type Crafting interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	// GetCraftingLogs returns the newest logs first
	GetCraftingLogs(ctx context.Context, userID string, limit int) ([]domain.CraftingLog, error)
	BeginTx(ctx context.Context) (CraftingTx, error)
}

// CraftingTx defines the interface for crafting transactions
type CraftingTx interface {
	Tx
	UserLedgerTx
	InventoryTx
	OutboxWriter
	// InsertCraftingLog appends an audit row and returns its id. Logs are never updated.
	InsertCraftingLog(ctx context.Context, log *domain.CraftingLog) (string, error)
}
