// Package reward applies reward descriptors to a user's balances, inventory and pets.
package reward

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/repository"
)

// Granter applies a reward inside the caller's transaction
type Granter interface {
	Grant(ctx context.Context, tx repository.RewardTx, userID string, r domain.Reward) error
}

// Dispatcher is the Granter used by the season service
type Dispatcher struct{}

// NewDispatcher creates a reward dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Grant applies r to userID through tx. A descriptor that cannot be applied
// (unknown type, missing id, non-positive amount, unknown item or pet) is
// logged and skipped with a nil error. Any other failure is returned so the
// caller's transaction rolls back.
func (d *Dispatcher) Grant(ctx context.Context, tx repository.RewardTx, userID string, r domain.Reward) error {
	log := logger.FromContext(ctx)
	if r == nil {
		log.Warn(LogMsgNilReward, "user_id", userID)
		return nil
	}
	log.Info(LogMsgGranting, "user_id", userID, "type", r.Type())

	err := d.apply(ctx, tx, userID, r)
	if isMalformed(err) {
		log.Warn(LogMsgMalformedReward, "user_id", userID, "type", r.Type(), "error", err)
		return nil
	}
	return err
}

func (d *Dispatcher) apply(ctx context.Context, tx repository.RewardTx, userID string, r domain.Reward) error {
	log := logger.FromContext(ctx)

	switch v := r.(type) {
	case domain.GoldReward:
		if v.Amount <= 0 {
			return fmt.Errorf(ErrMsgNonPositiveAmountFmt, v.Type(), v.Amount, domain.ErrInvalidReward)
		}
		if err := tx.AddGold(ctx, userID, decimal.NewFromInt(int64(v.Amount))); err != nil {
			return fmt.Errorf(ErrMsgGrantGoldFailed, err)
		}
		log.Info(LogMsgGranted, "user_id", userID, "type", v.Type(), "amount", v.Amount)

	case domain.DiamondsReward:
		if v.Amount <= 0 {
			return fmt.Errorf(ErrMsgNonPositiveAmountFmt, v.Type(), v.Amount, domain.ErrInvalidReward)
		}
		if err := tx.AddDiamonds(ctx, userID, v.Amount); err != nil {
			return fmt.Errorf(ErrMsgGrantDiamondsFailed, err)
		}
		log.Info(LogMsgGranted, "user_id", userID, "type", v.Type(), "amount", v.Amount)

	case domain.ItemReward:
		if v.ItemID == "" {
			return fmt.Errorf(ErrMsgMissingFieldFmt, v.Type(), "itemId", domain.ErrInvalidReward)
		}
		if err := tx.AddInventoryItem(ctx, userID, v.ItemID, v.Quantity()); err != nil {
			return fmt.Errorf(ErrMsgGrantItemFailed, v.ItemID, err)
		}
		log.Info(LogMsgGranted, "user_id", userID, "type", v.Type(), "item_id", v.ItemID, "quantity", v.Quantity())

	case domain.CompanionReward:
		if v.CompanionID == "" {
			return fmt.Errorf(ErrMsgMissingFieldFmt, v.Type(), "companionId", domain.ErrInvalidReward)
		}
		// Not deduplicated: claim idempotency is enforced by the claimed-set.
		userPetID, err := tx.InsertUserPet(ctx, userID, v.CompanionID)
		if err != nil {
			return fmt.Errorf(ErrMsgGrantCompanionFailed, v.CompanionID, err)
		}
		log.Info(LogMsgGranted, "user_id", userID, "type", v.Type(), "pet_id", v.CompanionID, "user_pet_id", userPetID)

	case domain.ThemeReward:
		log.Info(LogMsgUnimplementedType, "user_id", userID, "type", v.Type(), "theme_id", v.ThemeID)

	case domain.XPBoostReward:
		log.Info(LogMsgUnimplementedType, "user_id", userID, "type", v.Type(), "amount", v.Amount)

	case domain.UnknownReward:
		log.Warn(LogMsgUnknownType, "user_id", userID, "type", v.RawType, "raw", string(v.Raw))

	default:
		log.Warn(LogMsgUnknownType, "user_id", userID, "type", fmt.Sprintf("%T", r))
	}
	return nil
}

// isMalformed reports whether err comes from the descriptor rather than from persistence
func isMalformed(err error) bool {
	return errors.Is(err, domain.ErrInvalidReward) ||
		errors.Is(err, domain.ErrItemNotFound) ||
		errors.Is(err, domain.ErrPetNotFound)
}
