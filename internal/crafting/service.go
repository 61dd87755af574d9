package crafting

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/repository"
	"github.com/osse101/Ascend_Go/internal/utils"
)

// Result is the outcome of a crafting attempt that passed all preconditions.
// A lost roll is a Result with Success false, not an error.
type Result struct {
	Success        bool                `json:"success"`
	OutputItem     *domain.CraftedItem `json:"output_item,omitempty"`
	Message        string              `json:"message"`
	GoldSpent      int                 `json:"gold_spent"`
	RarityAchieved *domain.Rarity      `json:"rarity_achieved,omitempty"`
	LogID          string              `json:"log_id"`
}

// Service defines the interface for crafting operations
type Service interface {
	Craft(ctx context.Context, userID, recipeID string) (*Result, error)
	UpgradeRarity(ctx context.Context, userID, itemID string) (*UpgradeResult, error)
	GetAvailableRecipes(ctx context.Context, userID string) ([]domain.CraftingRecipe, error)
	GetCraftingHistory(ctx context.Context, userID string, limit int) ([]domain.CraftingLog, error)
}

type service struct {
	repo    repository.Crafting
	catalog repository.Catalog
	rnd     func() float64
	now     func() time.Time
}

// NewService creates a new crafting service
func NewService(repo repository.Crafting, catalog repository.Catalog) Service {
	return &service{
		repo:    repo,
		catalog: catalog,
		rnd:     utils.RandomFloat,
		now:     time.Now,
	}
}

// GetAvailableRecipes lists the recipes the user's level unlocks, lowest unlock level first
func (s *service) GetAvailableRecipes(ctx context.Context, userID string) ([]domain.CraftingRecipe, error) {
	logger.FromContext(ctx).Info(LogMsgRecipesRequested, "user_id", userID)

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}

	recipes, err := s.catalog.ListRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListRecipesFailed, err)
	}

	available := make([]domain.CraftingRecipe, 0, len(recipes))
	for _, r := range recipes {
		if r.UnlockLevel <= user.EffectiveLevel() {
			available = append(available, r)
		}
	}
	return available, nil
}

// GetCraftingHistory returns the user's most recent attempts, newest first
func (s *service) GetCraftingHistory(ctx context.Context, userID string, limit int) ([]domain.CraftingLog, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = utils.ClampInt(limit, 1, MaxHistoryLimit)

	logs, err := s.repo.GetCraftingLogs(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetHistoryFailed, err)
	}
	return logs, nil
}
