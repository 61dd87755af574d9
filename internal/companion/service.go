// Package companion manages owned pets: unlocking, equipping, leveling and the
// stat bonuses of equipped pets.
package companion

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/repository"
	"github.com/osse101/Ascend_Go/internal/validation"
)

// PetXPResult is the outcome of one XP grant
type PetXPResult struct {
	UserPetID string `json:"user_pet_id"`
	LeveledUp bool   `json:"leveled_up"`
	NewLevel  int    `json:"new_level"`
	XP        int    `json:"xp"`
}

// Service defines the interface for companion operations
type Service interface {
	UnlockPet(ctx context.Context, userID, petID string) (string, error)
	EquipCompanion(ctx context.Context, userID, userPetID string) error
	UnequipCompanion(ctx context.Context, userID, userPetID string) error
	GrantPetXP(ctx context.Context, userPetID string, amount int) (*PetXPResult, error)
	GrantXPToAllUserPets(ctx context.Context, userID string, amount int) ([]PetXPResult, error)
	RenamePet(ctx context.Context, userID, userPetID string, nickname *string) error
	GetUserPets(ctx context.Context, userID string) ([]domain.OwnedPet, error)
	GetEquippedBonuses(ctx context.Context, userID string) (domain.PetBonuses, error)
}

type service struct {
	repo      repository.Companion
	catalog   repository.Catalog
	validator *validation.Validator
}

// NewService creates a new companion service
func NewService(repo repository.Companion, catalog repository.Catalog) Service {
	return &service{
		repo:      repo,
		catalog:   catalog,
		validator: validation.NewValidator(),
	}
}

// UnlockPet gives the user a pet. Unlocking an owned pet returns the existing row.
func (s *service) UnlockPet(ctx context.Context, userID, petID string) (string, error) {
	log := logger.FromContext(ctx)

	if _, err := s.catalog.GetPet(ctx, petID); err != nil {
		return "", fmt.Errorf(ErrMsgGetPetFailed, err)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return "", fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.LockUser(ctx, userID); err != nil {
		return "", fmt.Errorf(ErrMsgLockUserFailed, err)
	}

	existing, err := tx.FindUserPet(ctx, userID, petID)
	if err != nil {
		return "", fmt.Errorf(ErrMsgFindUserPetFailed, err)
	}
	if existing != nil {
		log.Debug(LogMsgPetAlreadyUnlocked, "user_id", userID, "pet_id", petID, "user_pet_id", existing.ID)
		return existing.ID, nil
	}

	userPetID, err := tx.InsertUserPet(ctx, userID, petID)
	if err != nil {
		return "", fmt.Errorf(ErrMsgInsertUserPetFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	log.Info(LogMsgPetUnlocked, "user_id", userID, "pet_id", petID, "user_pet_id", userPetID)
	return userPetID, nil
}

// EquipCompanion equips a companion and unequips every other pet of the user
func (s *service) EquipCompanion(ctx context.Context, userID, userPetID string) error {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.LockUser(ctx, userID); err != nil {
		return fmt.Errorf(ErrMsgLockUserFailed, err)
	}

	up, err := s.ownedPet(ctx, tx, userID, userPetID)
	if err != nil {
		log.Warn(LogMsgEquipRejected, "user_id", userID, "user_pet_id", userPetID, "error", err)
		return err
	}

	pet, err := s.catalog.GetPet(ctx, up.PetID)
	if err != nil {
		return fmt.Errorf(ErrMsgGetPetFailed, err)
	}
	if pet.Type != domain.PetTypeCompanion {
		err := fmt.Errorf(ErrMsgNotCompanionFmt, pet.ID, pet.Type, domain.ErrNotCompanion)
		log.Warn(LogMsgEquipRejected, "user_id", userID, "user_pet_id", userPetID, "error", err)
		return err
	}

	if err := tx.UnequipAllPets(ctx, userID); err != nil {
		return fmt.Errorf(ErrMsgUnequipFailed, err)
	}
	if err := tx.SetPetEquipped(ctx, userPetID, true); err != nil {
		return fmt.Errorf(ErrMsgEquipFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	log.Info(LogMsgCompanionEquipped, "user_id", userID, "user_pet_id", userPetID, "pet_id", pet.ID)
	return nil
}

// UnequipCompanion unequips a pet. A pet that is not the user's or is not
// equipped is left alone without error.
func (s *service) UnequipCompanion(ctx context.Context, userID, userPetID string) error {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	up, err := s.ownedPet(ctx, tx, userID, userPetID)
	if errors.Is(err, domain.ErrPetNotOwned) {
		log.Debug(LogMsgUnequipSkipped, "user_id", userID, "user_pet_id", userPetID, "reason", err)
		return nil
	}
	if err != nil {
		return err
	}
	if !up.Equipped {
		log.Debug(LogMsgUnequipSkipped, "user_id", userID, "user_pet_id", userPetID, "reason", "not equipped")
		return nil
	}

	if err := tx.SetPetEquipped(ctx, userPetID, false); err != nil {
		return fmt.Errorf(ErrMsgEquipFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	log.Info(LogMsgCompanionUnequip, "user_id", userID, "user_pet_id", userPetID)
	return nil
}

// RenamePet sets or clears (nil or empty) the nickname of an owned pet
func (s *service) RenamePet(ctx context.Context, userID, userPetID string, nickname *string) error {
	log := logger.FromContext(ctx)

	if nickname != nil && *nickname == "" {
		nickname = nil
	}
	if nickname != nil {
		if err := s.checkNickname(*nickname); err != nil {
			log.Warn(LogMsgRenameRejected, "user_id", userID, "user_pet_id", userPetID, "error", err)
			return err
		}
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if _, err := s.ownedPet(ctx, tx, userID, userPetID); err != nil {
		log.Warn(LogMsgRenameRejected, "user_id", userID, "user_pet_id", userPetID, "error", err)
		return err
	}
	if err := tx.SetPetNickname(ctx, userPetID, nickname); err != nil {
		return fmt.Errorf(ErrMsgSetNicknameFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	log.Info(LogMsgPetRenamed, "user_id", userID, "user_pet_id", userPetID, "nickname", nickname)
	return nil
}

type nicknameInput struct {
	Nickname string `validate:"max=50,clean"`
}

func (s *service) checkNickname(nickname string) error {
	err := s.validator.ValidateStruct(nicknameInput{Nickname: nickname})
	switch validation.FailedTag(err) {
	case "":
		return err
	case "max":
		return domain.ErrNicknameTooLong
	case "clean":
		return domain.ErrInappropriateNickname
	default:
		return fmt.Errorf("%v | %w", err, domain.ErrInvalidInput)
	}
}

// GetUserPets lists the user's pets, equipped first and then newest first
func (s *service) GetUserPets(ctx context.Context, userID string) ([]domain.OwnedPet, error) {
	pets, err := s.repo.GetUserPets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserPetsFailed, err)
	}
	return pets, nil
}

// ownedPet locks a user pet and checks it belongs to userID. A missing row
// and a row of another user both report ErrPetNotOwned.
func (s *service) ownedPet(ctx context.Context, tx repository.CompanionTx, userID, userPetID string) (*domain.UserPet, error) {
	up, err := tx.GetUserPetForUpdate(ctx, userPetID)
	if errors.Is(err, domain.ErrPetNotFound) {
		return nil, fmt.Errorf(ErrMsgNotOwnedFmt, userPetID, domain.ErrPetNotOwned)
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserPetFailed, err)
	}
	if up.UserID != userID {
		return nil, fmt.Errorf(ErrMsgNotOwnedFmt, userPetID, domain.ErrPetNotOwned)
	}
	return up, nil
}
