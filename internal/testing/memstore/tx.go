package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/Ascend_Go/internal/domain"
)

// Tx is a serialized in-memory transaction
type Tx struct {
	store *Store
	st    *state
	done  bool
}

// Commit publishes the working state
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return ErrTxClosed
	}
	if err := t.store.failure("Commit"); err != nil {
		return err
	}
	t.store.mu.Lock()
	t.store.st = t.st
	t.store.mu.Unlock()
	t.done = true
	t.store.txMu.Unlock()
	return nil
}

// Rollback discards the working state. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.txMu.Unlock()
	return nil
}

func (t *Tx) fail(op string) error {
	return t.store.failure(op)
}

// ---- Users ----

func (t *Tx) GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	if err := t.fail("GetUserForUpdate"); err != nil {
		return nil, err
	}
	u, ok := t.st.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (t *Tx) AddGold(ctx context.Context, userID string, delta decimal.Decimal) error {
	if err := t.fail("AddGold"); err != nil {
		return err
	}
	u, ok := t.st.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	next := u.Gold.Add(delta)
	if next.IsNegative() {
		return domain.ErrInsufficientFunds
	}
	u.Gold = next
	t.st.users[userID] = u
	return nil
}

func (t *Tx) AddDiamonds(ctx context.Context, userID string, delta int) error {
	if err := t.fail("AddDiamonds"); err != nil {
		return err
	}
	u, ok := t.st.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.Diamonds+delta < 0 {
		return domain.ErrInsufficientFunds
	}
	u.Diamonds += delta
	t.st.users[userID] = u
	return nil
}

func (t *Tx) LockUser(ctx context.Context, userID string) error {
	if err := t.fail("LockUser"); err != nil {
		return err
	}
	if _, ok := t.st.users[userID]; !ok {
		return domain.ErrUserNotFound
	}
	return nil
}

// ---- Inventory ----

func (t *Tx) GetInventoryQuantities(ctx context.Context, userID string, itemIDs []string) (map[string]int, error) {
	if err := t.fail("GetInventoryQuantities"); err != nil {
		return nil, err
	}
	out := make(map[string]int, len(itemIDs))
	for _, id := range itemIDs {
		if qty, ok := t.st.inventory[userID][id]; ok {
			out[id] = qty
		}
	}
	return out, nil
}

func (t *Tx) AddInventoryItem(ctx context.Context, userID, itemID string, quantity int) error {
	if err := t.fail("AddInventoryItem"); err != nil {
		return err
	}
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if _, ok := t.st.items[itemID]; !ok {
		return domain.ErrItemNotFound
	}
	setQuantity(t.st, userID, itemID, t.st.inventory[userID][itemID]+quantity)
	return nil
}

func (t *Tx) RemoveInventoryItem(ctx context.Context, userID, itemID string, quantity int) error {
	if err := t.fail("RemoveInventoryItem"); err != nil {
		return err
	}
	have := t.st.inventory[userID][itemID]
	if have < quantity {
		return domain.ErrInsufficientQuantity
	}
	setQuantity(t.st, userID, itemID, have-quantity)
	return nil
}

// ---- Outbox ----

func (t *Tx) EnqueueEvent(ctx context.Context, evt domain.OutboxEvent) error {
	if err := t.fail("EnqueueEvent"); err != nil {
		return err
	}
	evt.ID = t.st.nextID()
	evt.CreatedAt = t.store.now()
	evt.DispatchedAt = nil
	t.st.outbox = append(t.st.outbox, evt)
	return nil
}

func (t *Tx) LockPending(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	if err := t.fail("LockPending"); err != nil {
		return nil, err
	}
	var out []domain.OutboxEvent
	for _, evt := range t.st.outbox {
		if evt.DispatchedAt != nil {
			continue
		}
		out = append(out, evt)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (t *Tx) MarkDispatched(ctx context.Context, ids []int64) error {
	if err := t.fail("MarkDispatched"); err != nil {
		return err
	}
	now := t.store.now()
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	for i := range t.st.outbox {
		if wanted[t.st.outbox[i].ID] {
			t.st.outbox[i].DispatchedAt = &now
		}
	}
	return nil
}

// ---- Crafting ----

func (t *Tx) InsertCraftingLog(ctx context.Context, log *domain.CraftingLog) (string, error) {
	if err := t.fail("InsertCraftingLog"); err != nil {
		return "", err
	}
	entry := *log
	entry.ID = uuid.NewString()
	if entry.CraftedAt.IsZero() {
		entry.CraftedAt = t.store.now()
	}
	entry.Inputs = append([]domain.CraftingLogInput(nil), log.Inputs...)
	t.st.craftingLogs = append(t.st.craftingLogs, entry)
	return entry.ID, nil
}

// ---- Pets ----

func (t *Tx) FindUserPet(ctx context.Context, userID, petID string) (*domain.UserPet, error) {
	if err := t.fail("FindUserPet"); err != nil {
		return nil, err
	}
	var found *domain.UserPet
	for _, up := range t.st.userPets {
		if up.UserID != userID || up.PetID != petID {
			continue
		}
		if found == nil || up.CreatedAt.Before(found.CreatedAt) {
			cp := up
			found = &cp
		}
	}
	return found, nil
}

func (t *Tx) InsertUserPet(ctx context.Context, userID, petID string) (string, error) {
	if err := t.fail("InsertUserPet"); err != nil {
		return "", err
	}
	if _, ok := t.st.users[userID]; !ok {
		return "", domain.ErrUserNotFound
	}
	if _, ok := t.st.pets[petID]; !ok {
		return "", domain.ErrPetNotFound
	}
	up := domain.UserPet{
		ID:        uuid.NewString(),
		UserID:    userID,
		PetID:     petID,
		Level:     1,
		CreatedAt: t.store.now().Add(time.Duration(t.st.nextID()) * time.Millisecond),
	}
	t.st.userPets[up.ID] = up
	return up.ID, nil
}

func (t *Tx) GetUserPetForUpdate(ctx context.Context, userPetID string) (*domain.UserPet, error) {
	if err := t.fail("GetUserPetForUpdate"); err != nil {
		return nil, err
	}
	up, ok := t.st.userPets[userPetID]
	if !ok {
		return nil, domain.ErrPetNotFound
	}
	return &up, nil
}

func (t *Tx) UnequipAllPets(ctx context.Context, userID string) error {
	if err := t.fail("UnequipAllPets"); err != nil {
		return err
	}
	for id, up := range t.st.userPets {
		if up.UserID == userID && up.Equipped {
			up.Equipped = false
			t.st.userPets[id] = up
		}
	}
	return nil
}

func (t *Tx) updatePet(op, userPetID string, fn func(up *domain.UserPet)) error {
	if err := t.fail(op); err != nil {
		return err
	}
	up, ok := t.st.userPets[userPetID]
	if !ok {
		return domain.ErrPetNotFound
	}
	fn(&up)
	t.st.userPets[userPetID] = up
	return nil
}

func (t *Tx) SetPetEquipped(ctx context.Context, userPetID string, equipped bool) error {
	return t.updatePet("SetPetEquipped", userPetID, func(up *domain.UserPet) { up.Equipped = equipped })
}

func (t *Tx) UpdatePetProgress(ctx context.Context, userPetID string, level, xp int) error {
	return t.updatePet("UpdatePetProgress", userPetID, func(up *domain.UserPet) {
		up.Level = level
		up.XP = xp
	})
}

func (t *Tx) SetPetNickname(ctx context.Context, userPetID string, nickname *string) error {
	return t.updatePet("SetPetNickname", userPetID, func(up *domain.UserPet) {
		if nickname == nil {
			up.Nickname = nil
			return
		}
		n := *nickname
		up.Nickname = &n
	})
}

// ---- Seasons ----

func (t *Tx) GetProgressForUpdate(ctx context.Context, userID, seasonID string) (*domain.UserSeasonProgress, error) {
	if err := t.fail("GetProgressForUpdate"); err != nil {
		return nil, err
	}
	p, ok := t.st.progress[progressKey{userID, seasonID}]
	if !ok {
		return nil, domain.ErrProgressNotFound
	}
	p.ClaimedFree = append([]int(nil), p.ClaimedFree...)
	p.ClaimedPremium = append([]int(nil), p.ClaimedPremium...)
	return &p, nil
}

func (t *Tx) CreateProgress(ctx context.Context, userID, seasonID string) (*domain.UserSeasonProgress, error) {
	if err := t.fail("CreateProgress"); err != nil {
		return nil, err
	}
	key := progressKey{userID, seasonID}
	if _, ok := t.st.progress[key]; !ok {
		if _, ok := t.st.users[userID]; !ok {
			return nil, domain.ErrUserNotFound
		}
		t.st.progress[key] = domain.UserSeasonProgress{
			UserID:         userID,
			SeasonID:       seasonID,
			ClaimedFree:    []int{},
			ClaimedPremium: []int{},
			UpdatedAt:      t.store.now(),
		}
	}
	return t.GetProgressForUpdate(ctx, userID, seasonID)
}

func (t *Tx) UpdateProgress(ctx context.Context, userID, seasonID string, xp, tier int) error {
	if err := t.fail("UpdateProgress"); err != nil {
		return err
	}
	key := progressKey{userID, seasonID}
	p, ok := t.st.progress[key]
	if !ok {
		return domain.ErrProgressNotFound
	}
	p.XP = xp
	p.CurrentTier = tier
	p.UpdatedAt = t.store.now()
	t.st.progress[key] = p
	return nil
}

func (t *Tx) AddClaimedTier(ctx context.Context, userID, seasonID string, track domain.Track, tier int) error {
	if err := t.fail("AddClaimedTier"); err != nil {
		return err
	}
	key := progressKey{userID, seasonID}
	p, ok := t.st.progress[key]
	if !ok {
		return domain.ErrProgressNotFound
	}
	if p.HasClaimed(track, tier) {
		return domain.ErrAlreadyClaimed
	}
	if track == domain.TrackPremium {
		p.ClaimedPremium = append(append([]int(nil), p.ClaimedPremium...), tier)
	} else {
		p.ClaimedFree = append(append([]int(nil), p.ClaimedFree...), tier)
	}
	t.st.progress[key] = p
	return nil
}

func (t *Tx) GetLatestSeasonNumber(ctx context.Context) (int, error) {
	if err := t.fail("GetLatestSeasonNumber"); err != nil {
		return 0, err
	}
	latest := 0
	for _, s := range t.st.seasons {
		if s.SeasonNumber > latest {
			latest = s.SeasonNumber
		}
	}
	return latest, nil
}

func (t *Tx) DeactivateSeasons(ctx context.Context) error {
	if err := t.fail("DeactivateSeasons"); err != nil {
		return err
	}
	for id, s := range t.st.seasons {
		if s.IsActive {
			s.IsActive = false
			t.st.seasons[id] = s
		}
	}
	return nil
}

func (t *Tx) DeactivateSeason(ctx context.Context, seasonID string) (bool, error) {
	if err := t.fail("DeactivateSeason"); err != nil {
		return false, err
	}
	s, ok := t.st.seasons[seasonID]
	if !ok || !s.IsActive {
		return false, nil
	}
	s.IsActive = false
	t.st.seasons[seasonID] = s
	return true, nil
}

func (t *Tx) InsertSeason(ctx context.Context, season *domain.Season) (string, error) {
	if err := t.fail("InsertSeason"); err != nil {
		return "", err
	}
	s := *season
	s.ID = uuid.NewString()
	t.st.seasons[s.ID] = s
	return s.ID, nil
}

func (t *Tx) InsertSeasonTiers(ctx context.Context, seasonID string, tiers []domain.SeasonTier) error {
	if err := t.fail("InsertSeasonTiers"); err != nil {
		return err
	}
	if _, ok := t.st.seasons[seasonID]; !ok {
		return domain.ErrSeasonNotFound
	}
	cp := make([]domain.SeasonTier, len(tiers))
	for i, tier := range tiers {
		tier.SeasonID = seasonID
		cp[i] = tier
	}
	sort.Slice(cp, func(i, j int) bool { return cp[i].Tier < cp[j].Tier })
	t.st.tiers[seasonID] = cp
	return nil
}
