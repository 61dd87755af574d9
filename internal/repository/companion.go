package repository

import (
	"context"

	"github.com/osse101/Ascend_Go/internal/domain"
)

// Companion defines the interface for pet persistence
type Companion interface {
	// GetUserPets returns equipped pets first, then newest first
	GetUserPets(ctx context.Context, userID string) ([]domain.OwnedPet, error)
	GetEquippedPets(ctx context.Context, userID string) ([]domain.OwnedPet, error)
	BeginTx(ctx context.Context) (CompanionTx, error)
}

// CompanionTx defines the interface for pet transactions
type CompanionTx interface {
	Tx
	OutboxWriter
	// LockUser serializes pet operations of one user
	LockUser(ctx context.Context, userID string) error
	// FindUserPet returns the oldest UserPet of (userID, petID) or nil
	FindUserPet(ctx context.Context, userID, petID string) (*domain.UserPet, error)
	InsertUserPet(ctx context.Context, userID, petID string) (string, error)
	GetUserPetForUpdate(ctx context.Context, userPetID string) (*domain.UserPet, error)
	UnequipAllPets(ctx context.Context, userID string) error
	SetPetEquipped(ctx context.Context, userPetID string, equipped bool) error
	UpdatePetProgress(ctx context.Context, userPetID string, level, xp int) error
	SetPetNickname(ctx context.Context, userPetID string, nickname *string) error
}
