package economy

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/repository"
)

// SellItem sells quantity units of an item back to the marketplace at its
// calculated price. The user row is locked for the duration of the sale.
func (s *service) SellItem(ctx context.Context, userID, itemID string, quantity int) (*SellResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSellItemCalled, "user_id", userID, "item_id", itemID, "quantity", quantity)

	if quantity <= 0 {
		return nil, fmt.Errorf(ErrMsgInvalidQuantityFmt, quantity, domain.ErrInvalidQuantity)
	}

	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetItemFailed, err)
	}
	if !item.IsTradable {
		log.Warn(LogMsgSellRejected, "user_id", userID, "item_id", itemID, "reason", domain.ErrMsgNotTradable)
		return nil, fmt.Errorf(ErrMsgItemNotTradableFmt, item.ID, domain.ErrNotTradable)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if _, err := tx.GetUserForUpdate(ctx, userID); err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}

	held, err := tx.GetInventoryQuantities(ctx, userID, []string{itemID})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetInventoryFailed, err)
	}
	if held[itemID] < quantity {
		log.Warn(LogMsgSellRejected, "user_id", userID, "item_id", itemID, "reason", domain.ErrMsgInsufficientQuantity)
		return nil, fmt.Errorf(ErrMsgItemNotInInventoryFmt, itemID, held[itemID], quantity, domain.ErrInsufficientQuantity)
	}

	unitPrice := CalculatePrice(*item)
	total := unitPrice * quantity

	if err := tx.RemoveInventoryItem(ctx, userID, itemID, quantity); err != nil {
		return nil, fmt.Errorf(ErrMsgRemoveItemFailed, err)
	}
	if err := tx.AddGold(ctx, userID, decimal.NewFromInt(int64(total))); err != nil {
		return nil, fmt.Errorf(ErrMsgAddGoldFailed, err)
	}

	if err := s.enqueueSaleEvents(ctx, tx, userID, item, quantity, total); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	log.Info(LogMsgItemSold, "user_id", userID, "item_id", itemID, "quantity", quantity, "gold", total)
	return &SellResult{
		ItemID:      itemID,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		GoldGained:  total,
		NewQuantity: held[itemID] - quantity,
	}, nil
}

func (s *service) enqueueSaleEvents(ctx context.Context, tx repository.EconomyTx, userID string, item *domain.Item, quantity, total int) error {
	sold, err := domain.NewOutboxEvent(domain.EventTypeItemSold, domain.ItemSoldPayload{
		UserID:     userID,
		ItemID:     item.ID,
		ItemName:   item.Name,
		Quantity:   quantity,
		TotalValue: total,
		Timestamp:  s.now().Unix(),
	})
	if err != nil {
		return err
	}

	activity, err := domain.NewOutboxEvent(domain.EventTypeActivityLogged, domain.ActivityLoggedPayload{
		UserID:  userID,
		Action:  domain.ActivityItemSold,
		Summary: fmt.Sprintf("Sold %dx %s for %d gold", quantity, item.Name, total),
		Detail: map[string]interface{}{
			"item_id":  item.ID,
			"quantity": quantity,
			"gold":     total,
		},
	})
	if err != nil {
		return err
	}

	for _, evt := range []domain.OutboxEvent{sold, activity} {
		if err := tx.EnqueueEvent(ctx, evt); err != nil {
			return fmt.Errorf(ErrMsgEnqueueEventFailed, err)
		}
	}
	return nil
}
