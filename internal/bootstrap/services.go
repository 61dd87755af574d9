package bootstrap

import (
	"github.com/osse101/Ascend_Go/internal/companion"
	"github.com/osse101/Ascend_Go/internal/crafting"
	"github.com/osse101/Ascend_Go/internal/economy"
	"github.com/osse101/Ascend_Go/internal/repository"
	"github.com/osse101/Ascend_Go/internal/reward"
	"github.com/osse101/Ascend_Go/internal/season"
)

// ServiceStore is the set of transactional views the engine services need
type ServiceStore interface {
	Crafting() repository.Crafting
	Economy() repository.Economy
	Companion() repository.Companion
	Season() repository.Season
}

// Services holds the engine services. An API layer embedding the engine
// calls these; the app binary itself only drives Season from the rollover
// worker.
type Services struct {
	Economy   economy.Service
	Crafting  crafting.Service
	Companion companion.Service
	Season    season.Service
}

// InitializeServices wires every service to store and the shared catalog
func InitializeServices(store ServiceStore, catalog repository.Catalog) *Services {
	return &Services{
		Economy:   economy.NewService(store.Economy(), catalog),
		Crafting:  crafting.NewService(store.Crafting(), catalog),
		Companion: companion.NewService(store.Companion(), catalog),
		Season:    season.NewService(store.Season(), catalog, reward.NewDispatcher()),
	}
}
