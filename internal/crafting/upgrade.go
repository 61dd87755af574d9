package crafting

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/repository"
)

// UpgradeResult is the outcome of a rarity upgrade
type UpgradeResult struct {
	Consumed    domain.CraftedItem `json:"consumed"`
	CopiesSpent int                `json:"copies_spent"`
	Upgraded    domain.CraftedItem `json:"upgraded"`
	Message     string             `json:"message"`
	LogID       string             `json:"log_id"`
}

// UpgradeCopies returns how many copies an upgrade from r consumes, or 0 when r cannot be upgraded
func UpgradeCopies(r domain.Rarity) int {
	return upgradeCopies[r]
}

// UpgradeRarity combines copies of one item into a single item of the same
// name one rarity step higher. There is no roll: if the user holds enough
// copies the upgrade always succeeds.
func (s *service) UpgradeRarity(ctx context.Context, userID, itemID string) (*UpgradeResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgUpgradeCalled, "user_id", userID, "item_id", itemID)

	from, to, err := s.planUpgrade(ctx, itemID)
	if err != nil {
		log.Warn(LogMsgUpgradeRejected, "user_id", userID, "item_id", itemID, "error", err)
		return nil, err
	}
	copies := UpgradeCopies(from.Rarity)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if _, err := tx.GetUserForUpdate(ctx, userID); err != nil {
		log.Warn(LogMsgUpgradeRejected, "user_id", userID, "item_id", itemID, "error", err)
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	held, err := tx.GetInventoryQuantities(ctx, userID, []string{from.ID})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetInventoryFailed, err)
	}
	if held[from.ID] < copies {
		err := fmt.Errorf(ErrMsgUpgradeCopiesFmt, copies, from.ID, held[from.ID], domain.ErrInsufficientQuantity)
		log.Warn(LogMsgUpgradeRejected, "user_id", userID, "item_id", itemID, "error", err)
		return nil, err
	}

	if err := tx.RemoveInventoryItem(ctx, userID, from.ID, copies); err != nil {
		return nil, fmt.Errorf(ErrMsgConsumeItemFailed, from.ID, err)
	}
	if err := tx.AddInventoryItem(ctx, userID, to.ID, 1); err != nil {
		return nil, fmt.Errorf(ErrMsgAddOutputFailed, err)
	}

	result := &UpgradeResult{
		Consumed:    craftedFrom(from),
		CopiesSpent: copies,
		Upgraded:    craftedFrom(to),
		Message:     fmt.Sprintf(MsgUpgradedFmt, from.Name, to.Rarity),
	}

	inputs := make([]domain.CraftingLogInput, copies)
	for i := range inputs {
		inputs[i] = domain.CraftingLogInput{ItemID: from.ID, Name: from.Name, Rarity: from.Rarity}
	}
	rarity := to.Rarity
	logID, err := tx.InsertCraftingLog(ctx, &domain.CraftingLog{
		UserID:         userID,
		RecipeID:       UpgradeLogRecipeID,
		Inputs:         inputs,
		Output:         &result.Upgraded,
		Success:        true,
		RarityAchieved: &rarity,
		CraftedAt:      s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgInsertLogFailed, err)
	}
	result.LogID = logID

	if err := s.enqueueUpgradeEvents(ctx, tx, userID, result); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	log.Info(LogMsgUpgradeSucceeded, "user_id", userID, "item_id", from.ID, "upgraded_id", to.ID, "rarity", to.Rarity)
	return result, nil
}

// planUpgrade resolves the item and its catalog variant one rarity higher.
// Variants share the item's name.
func (s *service) planUpgrade(ctx context.Context, itemID string) (*domain.Item, *domain.Item, error) {
	from, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		return nil, nil, fmt.Errorf(ErrMsgGetItemFailed, err)
	}
	next := NextRarity(from.Rarity)
	if next == from.Rarity || UpgradeCopies(from.Rarity) == 0 {
		return nil, nil, fmt.Errorf(ErrMsgMaxRarityFmt, from.ID, from.Rarity, domain.ErrMaxRarity)
	}

	items, err := s.catalog.ListItems(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf(ErrMsgListItemsFailed, err)
	}
	for i := range items {
		if items[i].Name == from.Name && items[i].Rarity == next {
			return from, &items[i], nil
		}
	}
	return nil, nil, fmt.Errorf(ErrMsgNoUpgradePathFmt, from.ID, next, domain.ErrNoUpgradePath)
}

func craftedFrom(item *domain.Item) domain.CraftedItem {
	return domain.CraftedItem{
		ItemID:  item.ID,
		Name:    item.Name,
		Rarity:  item.Rarity,
		Power:   item.Power,
		Defense: item.Defense,
	}
}

func (s *service) enqueueUpgradeEvents(ctx context.Context, tx repository.CraftingTx, userID string, result *UpgradeResult) error {
	rarityTitle := cases.Title(language.English).String(string(result.Upgraded.Rarity))

	feed, err := domain.NewOutboxEvent(domain.EventTypeFeedItem, domain.FeedItemPayload{
		UserID: userID,
		Type:   domain.FeedTypeCrafting,
		Title:  fmt.Sprintf(FeedTitleUpgradedFmt, result.Consumed.Name, rarityTitle),
		Metadata: map[string]interface{}{
			"item_id": result.Upgraded.ItemID,
			"rarity":  result.Upgraded.Rarity,
		},
	})
	if err != nil {
		return err
	}

	activity, err := domain.NewOutboxEvent(domain.EventTypeActivityLogged, domain.ActivityLoggedPayload{
		UserID:  userID,
		Action:  domain.ActivityRarityUpgraded,
		Summary: fmt.Sprintf(ActivityUpgradedFmt, result.CopiesSpent, result.Consumed.Name, result.Upgraded.Rarity),
		Detail: map[string]interface{}{
			"from_item_id": result.Consumed.ItemID,
			"to_item_id":   result.Upgraded.ItemID,
			"copies":       result.CopiesSpent,
			"log_id":       result.LogID,
		},
	})
	if err != nil {
		return err
	}

	for _, evt := range []domain.OutboxEvent{feed, activity} {
		if err := tx.EnqueueEvent(ctx, evt); err != nil {
			return fmt.Errorf(ErrMsgEnqueueEventFailed, err)
		}
	}
	return nil
}
