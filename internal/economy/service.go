package economy

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/repository"
)

// PriceEntry is one row of the marketplace price list
type PriceEntry struct {
	ItemID string        `json:"item_id"`
	Name   string        `json:"name"`
	Rarity domain.Rarity `json:"rarity"`
	Price  int           `json:"price"`
}

// SellResult contains the result of a sell operation
type SellResult struct {
	ItemID      string `json:"item_id"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int    `json:"unit_price"`
	GoldGained  int    `json:"gold_gained"`
	NewQuantity int    `json:"new_quantity"`
}

// Service defines the interface for marketplace operations
type Service interface {
	GetItemPrice(ctx context.Context, itemID string) (int, error)
	GetPriceList(ctx context.Context) ([]PriceEntry, error)
	SellItem(ctx context.Context, userID, itemID string, quantity int) (*SellResult, error)
}

type service struct {
	repo    repository.Economy
	catalog repository.Catalog
	now     func() time.Time
}

// NewService creates a new economy service
func NewService(repo repository.Economy, catalog repository.Catalog) Service {
	return &service{
		repo:    repo,
		catalog: catalog,
		now:     time.Now,
	}
}

func (s *service) GetItemPrice(ctx context.Context, itemID string) (int, error) {
	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgGetItemFailed, err)
	}
	return CalculatePrice(*item), nil
}

// GetPriceList prices every tradable item, cheapest first
func (s *service) GetPriceList(ctx context.Context) ([]PriceEntry, error) {
	logger.FromContext(ctx).Info(LogMsgGetPriceListCalled)

	items, err := s.catalog.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListItemsFailed, err)
	}

	entries := make([]PriceEntry, 0, len(items))
	for _, item := range items {
		if !item.IsTradable {
			continue
		}
		entries = append(entries, PriceEntry{
			ItemID: item.ID,
			Name:   item.Name,
			Rarity: item.Rarity,
			Price:  CalculatePrice(item),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Price != entries[j].Price {
			return entries[i].Price < entries[j].Price
		}
		return entries[i].ItemID < entries[j].ItemID
	})
	return entries, nil
}
