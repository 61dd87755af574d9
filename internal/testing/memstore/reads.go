package memstore

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/osse101/Ascend_Go/internal/domain"
)

// ---- Users & logs ----

func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if err := s.failure("GetUser"); err != nil {
		return nil, err
	}
	var u domain.User
	var ok bool
	s.read(func(st *state) { u, ok = st.users[userID] })
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s *Store) GetCraftingLogs(ctx context.Context, userID string, limit int) ([]domain.CraftingLog, error) {
	if err := s.failure("GetCraftingLogs"); err != nil {
		return nil, err
	}
	var out []domain.CraftingLog
	s.read(func(st *state) {
		for i := len(st.craftingLogs) - 1; i >= 0; i-- {
			if st.craftingLogs[i].UserID == userID {
				out = append(out, st.craftingLogs[i])
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CraftedAt.After(out[j].CraftedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---- Pets ----

func (s *Store) ownedPets(userID string, equippedOnly bool) []domain.OwnedPet {
	var out []domain.OwnedPet
	s.read(func(st *state) {
		for _, up := range st.userPets {
			if up.UserID != userID || (equippedOnly && !up.Equipped) {
				continue
			}
			out = append(out, domain.OwnedPet{UserPet: up, Pet: st.pets[up.PetID]})
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Equipped != out[j].Equipped {
			return out[i].Equipped
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Store) GetUserPets(ctx context.Context, userID string) ([]domain.OwnedPet, error) {
	if err := s.failure("GetUserPets"); err != nil {
		return nil, err
	}
	return s.ownedPets(userID, false), nil
}

func (s *Store) GetEquippedPets(ctx context.Context, userID string) ([]domain.OwnedPet, error) {
	if err := s.failure("GetEquippedPets"); err != nil {
		return nil, err
	}
	return s.ownedPets(userID, true), nil
}

// ---- Seasons ----

func (s *Store) GetActiveSeason(ctx context.Context) (*domain.Season, error) {
	if err := s.failure("GetActiveSeason"); err != nil {
		return nil, err
	}
	var active *domain.Season
	s.read(func(st *state) {
		for _, season := range st.seasons {
			if !season.IsActive {
				continue
			}
			if active == nil || season.SeasonNumber > active.SeasonNumber {
				cp := season
				active = &cp
			}
		}
	})
	if active == nil {
		return nil, domain.ErrNoActiveSeason
	}
	return active, nil
}

func (s *Store) GetSeason(ctx context.Context, seasonID string) (*domain.Season, error) {
	if err := s.failure("GetSeason"); err != nil {
		return nil, err
	}
	var season domain.Season
	var ok bool
	s.read(func(st *state) { season, ok = st.seasons[seasonID] })
	if !ok {
		return nil, domain.ErrSeasonNotFound
	}
	return &season, nil
}

// ---- Catalog ----

func (s *Store) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	if err := s.failure("GetItem"); err != nil {
		return nil, err
	}
	var item domain.Item
	var ok bool
	s.read(func(st *state) { item, ok = st.items[itemID] })
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return &item, nil
}

func (s *Store) ListItems(ctx context.Context) ([]domain.Item, error) {
	if err := s.failure("ListItems"); err != nil {
		return nil, err
	}
	var out []domain.Item
	s.read(func(st *state) {
		for _, item := range st.items {
			out = append(out, item)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetRecipe(ctx context.Context, recipeID string) (*domain.CraftingRecipe, error) {
	if err := s.failure("GetRecipe"); err != nil {
		return nil, err
	}
	var r domain.CraftingRecipe
	var ok bool
	s.read(func(st *state) { r, ok = st.recipes[recipeID] })
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	return &r, nil
}

func (s *Store) ListRecipes(ctx context.Context) ([]domain.CraftingRecipe, error) {
	if err := s.failure("ListRecipes"); err != nil {
		return nil, err
	}
	var out []domain.CraftingRecipe
	s.read(func(st *state) {
		for _, r := range st.recipes {
			out = append(out, r)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].UnlockLevel != out[j].UnlockLevel {
			return out[i].UnlockLevel < out[j].UnlockLevel
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetPet(ctx context.Context, petID string) (*domain.Pet, error) {
	if err := s.failure("GetPet"); err != nil {
		return nil, err
	}
	var p domain.Pet
	var ok bool
	s.read(func(st *state) { p, ok = st.pets[petID] })
	if !ok {
		return nil, domain.ErrPetNotFound
	}
	return &p, nil
}

func (s *Store) ListPets(ctx context.Context) ([]domain.Pet, error) {
	if err := s.failure("ListPets"); err != nil {
		return nil, err
	}
	var out []domain.Pet
	s.read(func(st *state) {
		for _, p := range st.pets {
			out = append(out, p)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetSeasonTiers(ctx context.Context, seasonID string) ([]domain.SeasonTier, error) {
	if err := s.failure("GetSeasonTiers"); err != nil {
		return nil, err
	}
	var out []domain.SeasonTier
	s.read(func(st *state) { out = append(out, st.tiers[seasonID]...) })
	return out, nil
}

func (s *Store) UpsertItem(ctx context.Context, item domain.Item) error {
	if err := s.failure("UpsertItem"); err != nil {
		return err
	}
	s.AddItem(item)
	return nil
}

func (s *Store) UpsertRecipe(ctx context.Context, recipe domain.CraftingRecipe) error {
	if err := s.failure("UpsertRecipe"); err != nil {
		return err
	}
	s.AddRecipe(recipe)
	return nil
}

func (s *Store) UpsertPet(ctx context.Context, pet domain.Pet) error {
	if err := s.failure("UpsertPet"); err != nil {
		return err
	}
	s.AddPet(pet)
	return nil
}

// ---- Outbox sinks ----

func (s *Store) CountPending(ctx context.Context) (int, error) {
	if err := s.failure("CountPending"); err != nil {
		return 0, err
	}
	n := 0
	s.read(func(st *state) {
		for _, evt := range st.outbox {
			if evt.DispatchedAt == nil {
				n++
			}
		}
	})
	return n, nil
}

func (s *Store) DeleteDispatchedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := s.failure("DeleteDispatchedBefore"); err != nil {
		return 0, err
	}
	var removed int64
	s.write(func(st *state) {
		kept := st.outbox[:0]
		for _, evt := range st.outbox {
			if evt.DispatchedAt != nil && evt.DispatchedAt.Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, evt)
		}
		st.outbox = kept
	})
	return removed, nil
}

// deliver runs insert once per (sink, eventID)
func (s *Store) deliver(sink string, eventID int64, insert func(sk *sinks)) bool {
	s.sinkMu.Lock()
	defer s.sinkMu.Unlock()
	key := deliveryKey{sink: sink, eventID: eventID}
	if _, seen := s.sinks.delivered[key]; seen {
		return false
	}
	s.sinks.delivered[key] = struct{}{}
	insert(&s.sinks)
	return true
}

func (s *Store) InsertFeedItem(ctx context.Context, eventID int64, item domain.FeedItemPayload) (bool, error) {
	if err := s.failure("InsertFeedItem"); err != nil {
		return false, err
	}
	return s.deliver("feed", eventID, func(sk *sinks) { sk.feed = append(sk.feed, item) }), nil
}

func (s *Store) InsertActivity(ctx context.Context, eventID int64, activity domain.ActivityLoggedPayload) (bool, error) {
	if err := s.failure("InsertActivity"); err != nil {
		return false, err
	}
	return s.deliver("activity", eventID, func(sk *sinks) { sk.activities = append(sk.activities, activity) }), nil
}

func (s *Store) InsertNotification(ctx context.Context, eventID int64, userID, kind string, payload json.RawMessage) (bool, error) {
	if err := s.failure("InsertNotification"); err != nil {
		return false, err
	}
	return s.deliver("notification:"+kind, eventID, func(sk *sinks) {
		sk.notifications = append(sk.notifications, Notification{UserID: userID, Kind: kind, Payload: payload})
	}), nil
}
