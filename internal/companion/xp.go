package companion

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/repository"
)

// ApplyPetXP adds amount to a pet at level with xp. A pet gains at most one
// level per grant and keeps the XP past the threshold.
func ApplyPetXP(level, xp, amount int) (newLevel, newXP int, leveledUp bool) {
	total := xp + amount
	needed := domain.PetXPNeeded(level)
	if total >= needed {
		return level + 1, total - needed, true
	}
	return level, total, false
}

// GrantPetXP adds XP to one pet and enqueues pet.level_up when it levels
func (s *service) GrantPetXP(ctx context.Context, userPetID string, amount int) (*PetXPResult, error) {
	log := logger.FromContext(ctx)

	if amount < 0 {
		return nil, fmt.Errorf(ErrMsgPetXPFmt, amount, domain.ErrInvalidPetXPAmount)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	up, err := tx.GetUserPetForUpdate(ctx, userPetID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserPetFailed, err)
	}

	level, xp, leveledUp := ApplyPetXP(up.Level, up.XP, amount)
	if err := tx.UpdatePetProgress(ctx, userPetID, level, xp); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateProgressFailed, err)
	}

	if leveledUp {
		if err := s.enqueueLevelUp(ctx, tx, up, level); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	if leveledUp {
		log.Info(LogMsgPetLeveledUp, "user_id", up.UserID, "user_pet_id", userPetID, "level", level)
	} else {
		log.Debug(LogMsgPetXPGranted, "user_id", up.UserID, "user_pet_id", userPetID, "xp", xp)
	}
	return &PetXPResult{UserPetID: userPetID, LeveledUp: leveledUp, NewLevel: level, XP: xp}, nil
}

func (s *service) enqueueLevelUp(ctx context.Context, tx repository.CompanionTx, up *domain.UserPet, level int) error {
	name := up.PetID
	if up.Nickname != nil {
		name = *up.Nickname
	} else if pet, err := s.catalog.GetPet(ctx, up.PetID); err == nil {
		name = pet.Name
	}

	evt, err := domain.NewOutboxEvent(domain.EventTypePetLevelUp, domain.PetLevelUpPayload{
		UserID:    up.UserID,
		UserPetID: up.ID,
		PetID:     up.PetID,
		PetName:   name,
		NewLevel:  level,
	})
	if err != nil {
		return err
	}
	if err := tx.EnqueueEvent(ctx, evt); err != nil {
		return fmt.Errorf(ErrMsgEnqueueEventFailed, err)
	}
	return nil
}

// GrantXPToAllUserPets grants XP to every pet of the user, each in its own
// transaction. A failing pet is logged and skipped. The returned error joins
// the per-pet failures and is only meant for logging.
func (s *service) GrantXPToAllUserPets(ctx context.Context, userID string, amount int) ([]PetXPResult, error) {
	log := logger.FromContext(ctx)

	if amount < 0 {
		return nil, fmt.Errorf(ErrMsgPetXPFmt, amount, domain.ErrInvalidPetXPAmount)
	}

	pets, err := s.repo.GetUserPets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserPetsFailed, err)
	}

	results := make([]PetXPResult, 0, len(pets))
	var errs []error
	for _, pet := range pets {
		result, err := s.GrantPetXP(ctx, pet.ID, amount)
		if err != nil {
			log.Error(LogMsgGrantPetXPFailed, "user_id", userID, "user_pet_id", pet.ID, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", pet.ID, err))
			continue
		}
		results = append(results, *result)
	}

	if len(errs) > 0 {
		return results, fmt.Errorf(ErrMsgGrantAllFailedFmt, len(errs), len(pets), errors.Join(errs...))
	}
	return results, nil
}
