package repository

import "context"

// RewardTx is everything the reward dispatcher may mutate
type RewardTx interface {
	UserLedgerTx
	InventoryTx
	// InsertUserPet always creates a new row and returns its id
	InsertUserPet(ctx context.Context, userID, petID string) (string, error)
}
