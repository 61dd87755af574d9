package crafting

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/repository"
)

// craftPlan is everything resolved from the catalog before the transaction starts
type craftPlan struct {
	recipe   *domain.CraftingRecipe
	output   *domain.Item
	inputs   []domain.CraftingLogInput
	required map[string]int
	itemIDs  []string
}

// Craft runs one crafting attempt. Preconditions are checked in order
// (recipe, user, level, gold, materials) before anything is written. Once they
// pass, gold and materials are spent whatever the roll, and the attempt is
// logged in the same transaction.
func (s *service) Craft(ctx context.Context, userID, recipeID string) (*Result, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCraftCalled, "user_id", userID, "recipe_id", recipeID)

	plan, err := s.planCraft(ctx, recipeID)
	if err != nil {
		log.Warn(LogMsgCraftRejected, "user_id", userID, "recipe_id", recipeID, "error", err)
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := s.checkUser(ctx, tx, userID, plan); err != nil {
		log.Warn(LogMsgCraftRejected, "user_id", userID, "recipe_id", recipeID, "error", err)
		return nil, err
	}

	result, err := s.execute(ctx, tx, userID, plan)
	if err != nil {
		log.Error(LogMsgCraftTxFailed, "user_id", userID, "recipe_id", recipeID, "error", err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	if result.Success {
		log.Info(LogMsgCraftSucceeded, "user_id", userID, "recipe_id", recipeID, "rarity", *result.RarityAchieved)
	} else {
		log.Info(LogMsgCraftFailed, "user_id", userID, "recipe_id", recipeID)
	}
	return result, nil
}

func (s *service) planCraft(ctx context.Context, recipeID string) (*craftPlan, error) {
	recipe, err := s.catalog.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetRecipeFailed, err)
	}
	if recipe.SuccessRate < 0 || recipe.SuccessRate > SuccessRateScale {
		return nil, fmt.Errorf(ErrMsgInvalidSuccessRateFmt, recipe.ID, recipe.SuccessRate, domain.ErrInvalidRecipe)
	}

	output, err := s.resolveItem(ctx, recipe, recipe.OutputItemID)
	if err != nil {
		return nil, err
	}

	plan := &craftPlan{
		recipe:   recipe,
		output:   output,
		required: recipe.RequiredInputs(),
		inputs:   make([]domain.CraftingLogInput, 0, len(recipe.InputItemIDs)),
	}
	for _, id := range recipe.InputItemIDs {
		item, err := s.resolveItem(ctx, recipe, id)
		if err != nil {
			return nil, err
		}
		plan.inputs = append(plan.inputs, domain.CraftingLogInput{ItemID: item.ID, Name: item.Name, Rarity: item.Rarity})
	}
	for id := range plan.required {
		plan.itemIDs = append(plan.itemIDs, id)
	}
	sort.Strings(plan.itemIDs)
	return plan, nil
}

// resolveItem loads an item a recipe refers to. A dangling reference makes the recipe invalid.
func (s *service) resolveItem(ctx context.Context, recipe *domain.CraftingRecipe, itemID string) (*domain.Item, error) {
	item, err := s.catalog.GetItem(ctx, itemID)
	if errors.Is(err, domain.ErrItemNotFound) {
		return nil, fmt.Errorf(ErrMsgResolveItemFailedFmt, recipe.ID, itemID, err, domain.ErrInvalidRecipe)
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetItemFailed, err)
	}
	return item, nil
}

// checkUser locks the user row and verifies level, gold and materials
func (s *service) checkUser(ctx context.Context, tx repository.CraftingTx, userID string, plan *craftPlan) error {
	user, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	if user.EffectiveLevel() < plan.recipe.UnlockLevel {
		return fmt.Errorf(ErrMsgLevelRequiredFmt, plan.recipe.UnlockLevel, domain.ErrLevelTooLow)
	}
	if !user.CanAfford(plan.recipe.GoldCost) {
		return fmt.Errorf(ErrMsgGoldRequiredFmt, plan.recipe.GoldCost, domain.ErrInsufficientFunds)
	}

	held, err := tx.GetInventoryQuantities(ctx, userID, plan.itemIDs)
	if err != nil {
		return fmt.Errorf(ErrMsgGetInventoryFailed, err)
	}
	for _, id := range plan.itemIDs {
		if held[id] < plan.required[id] {
			return fmt.Errorf(ErrMsgMissingItemFmt, id, held[id], plan.required[id], domain.ErrMissingMaterials)
		}
	}
	return nil
}

// execute spends the inputs, rolls, grants the output on success and records the attempt
func (s *service) execute(ctx context.Context, tx repository.CraftingTx, userID string, plan *craftPlan) (*Result, error) {
	recipe := plan.recipe

	if recipe.GoldCost > 0 {
		if err := tx.AddGold(ctx, userID, decimal.NewFromInt(int64(-recipe.GoldCost))); err != nil {
			return nil, fmt.Errorf(ErrMsgDebitGoldFailed, err)
		}
	}
	for _, id := range plan.itemIDs {
		if err := tx.RemoveInventoryItem(ctx, userID, id, plan.required[id]); err != nil {
			return nil, fmt.Errorf(ErrMsgConsumeItemFailed, id, err)
		}
	}

	entry := &domain.CraftingLog{
		UserID:    userID,
		RecipeID:  recipe.ID,
		Inputs:    plan.inputs,
		GoldSpent: recipe.GoldCost,
		CraftedAt: s.now(),
	}
	result := &Result{
		GoldSpent: recipe.GoldCost,
		Message:   MsgCraftingFailed,
	}

	if RollSuccess(recipe.SuccessRate, s.rnd) {
		rarity := plan.output.Rarity
		if recipe.RarityBoost {
			rarity = NextRarity(rarity)
		}
		crafted, variance := ApplyStatVariance(*plan.output, s.rnd)
		crafted.Rarity = rarity

		if err := tx.AddInventoryItem(ctx, userID, plan.output.ID, 1); err != nil {
			return nil, fmt.Errorf(ErrMsgAddOutputFailed, err)
		}

		entry.Success = true
		entry.Output = &crafted
		entry.RarityAchieved = &rarity
		entry.StatVariance = variance

		result.Success = true
		result.OutputItem = &crafted
		result.RarityAchieved = &rarity
		result.Message = fmt.Sprintf(MsgCraftedFmt, crafted.Name)
	}

	logID, err := tx.InsertCraftingLog(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgInsertLogFailed, err)
	}
	result.LogID = logID

	if err := s.enqueueCraftEvents(ctx, tx, userID, plan, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) enqueueCraftEvents(ctx context.Context, tx repository.CraftingTx, userID string, plan *craftPlan, result *Result) error {
	events := make([]domain.OutboxEvent, 0, 3)

	complete, err := domain.NewOutboxEvent(domain.EventTypeCraftingComplete, domain.CraftingCompletePayload{
		UserID:     userID,
		RecipeID:   plan.recipe.ID,
		RecipeName: plan.recipe.Name,
		Success:    result.Success,
		OutputItem: result.OutputItem,
		Rarity:     result.RarityAchieved,
		GoldSpent:  result.GoldSpent,
		Timestamp:  s.now().Unix(),
	})
	if err != nil {
		return err
	}
	events = append(events, complete)

	activity := domain.ActivityLoggedPayload{
		UserID:  userID,
		Action:  domain.ActivityCraftingFailed,
		Summary: fmt.Sprintf(ActivityCraftFailFmt, plan.recipe.Name),
		Detail: map[string]interface{}{
			"recipe_id":  plan.recipe.ID,
			"gold_spent": result.GoldSpent,
			"log_id":     result.LogID,
		},
	}

	if result.Success {
		activity.Action = domain.ActivityCraftingSuccess
		activity.Summary = fmt.Sprintf(ActivityCraftedFmt, result.OutputItem.Name)
		activity.Detail["rarity"] = *result.RarityAchieved

		feed := domain.FeedItemPayload{
			UserID: userID,
			Type:   domain.FeedTypeCrafting,
			Title:  fmt.Sprintf(FeedTitleCraftedFmt, cases.Title(language.English).String(string(*result.RarityAchieved)), result.OutputItem.Name),
			Metadata: map[string]interface{}{
				"recipe_id": plan.recipe.ID,
				"item_id":   result.OutputItem.ItemID,
				"rarity":    *result.RarityAchieved,
			},
		}
		if *result.RarityAchieved != plan.output.Rarity {
			feed.Description = FeedRarityUpgraded
		}
		feedEvt, err := domain.NewOutboxEvent(domain.EventTypeFeedItem, feed)
		if err != nil {
			return err
		}
		events = append(events, feedEvt)
	}

	activityEvt, err := domain.NewOutboxEvent(domain.EventTypeActivityLogged, activity)
	if err != nil {
		return err
	}
	events = append(events, activityEvt)

	for _, evt := range events {
		if err := tx.EnqueueEvent(ctx, evt); err != nil {
			return fmt.Errorf(ErrMsgEnqueueEventFailed, err)
		}
	}
	return nil
}
