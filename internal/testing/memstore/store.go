// Package memstore is an in-memory implementation of every repository
// interface. Transactions are serialized and work on a copy of the state that
// replaces the committed state on Commit, so a rollback discards everything.
package memstore

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/repository"
)

// ErrTxClosed is returned when committing a finished transaction
var ErrTxClosed = errors.New("tx is closed")

// Notification is a stored notification row
type Notification struct {
	UserID  string
	Kind    string
	Payload json.RawMessage
}

type deliveryKey struct {
	sink    string
	eventID int64
}

type progressKey struct {
	userID   string
	seasonID string
}

type state struct {
	users        map[string]domain.User
	inventory    map[string]map[string]int
	items        map[string]domain.Item
	recipes      map[string]domain.CraftingRecipe
	pets         map[string]domain.Pet
	userPets     map[string]domain.UserPet
	seasons      map[string]domain.Season
	tiers        map[string][]domain.SeasonTier
	progress     map[progressKey]domain.UserSeasonProgress
	craftingLogs []domain.CraftingLog
	outbox       []domain.OutboxEvent
	seq          int64
}

// sinks hold rows written by event subscribers. They are written outside any
// transaction, so a relay transaction committing its snapshot keeps them.
type sinks struct {
	feed          []domain.FeedItemPayload
	activities    []domain.ActivityLoggedPayload
	notifications []Notification
	delivered     map[deliveryKey]struct{}
}

func newState() *state {
	return &state{
		users:     make(map[string]domain.User),
		inventory: make(map[string]map[string]int),
		items:     make(map[string]domain.Item),
		recipes:   make(map[string]domain.CraftingRecipe),
		pets:      make(map[string]domain.Pet),
		userPets:  make(map[string]domain.UserPet),
		seasons:   make(map[string]domain.Season),
		tiers:     make(map[string][]domain.SeasonTier),
		progress:  make(map[progressKey]domain.UserSeasonProgress),
	}
}

// clone deep-copies the mutable parts of the state. Catalog maps hold values
// that are never mutated in place, so copying the map is enough.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for userID, inv := range s.inventory {
		cp := make(map[string]int, len(inv))
		for itemID, qty := range inv {
			cp[itemID] = qty
		}
		c.inventory[userID] = cp
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.recipes {
		c.recipes[k] = v
	}
	for k, v := range s.pets {
		c.pets[k] = v
	}
	for k, v := range s.userPets {
		c.userPets[k] = v
	}
	for k, v := range s.seasons {
		c.seasons[k] = v
	}
	for k, v := range s.tiers {
		c.tiers[k] = append([]domain.SeasonTier(nil), v...)
	}
	for k, v := range s.progress {
		v.ClaimedFree = append([]int(nil), v.ClaimedFree...)
		v.ClaimedPremium = append([]int(nil), v.ClaimedPremium...)
		c.progress[k] = v
	}
	c.craftingLogs = append([]domain.CraftingLog(nil), s.craftingLogs...)
	c.outbox = append([]domain.OutboxEvent(nil), s.outbox...)
	c.seq = s.seq
	return c
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

// Store is the in-memory repository
type Store struct {
	txMu     sync.Mutex
	mu       sync.RWMutex
	st       *state
	failures map[string]error
	now      func() time.Time

	sinkMu sync.Mutex
	sinks  sinks
}

// New creates an empty store
func New() *Store {
	return &Store{
		st:       newState(),
		failures: make(map[string]error),
		now:      time.Now,
		sinks:    sinks{delivered: make(map[deliveryKey]struct{})},
	}
}

// FailOn makes every call to the named operation return err until cleared
// with a nil err. Operation names are the method names, e.g. "AddGold" or "Commit".
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) failure(op string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failures[op]
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}

func (s *Store) write(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.st)
}

func (s *Store) begin(op string) (*Tx, error) {
	if err := s.failure(op); err != nil {
		return nil, err
	}
	s.txMu.Lock()
	s.mu.RLock()
	working := s.st.clone()
	s.mu.RUnlock()
	return &Tx{store: s, st: working}, nil
}

// Repository views. Each returns the same store behind the interface of one service.

type craftingRepo struct{ *Store }
type economyRepo struct{ *Store }
type companionRepo struct{ *Store }
type seasonRepo struct{ *Store }
type outboxRepo struct{ *Store }

func (s *Store) Crafting() repository.Crafting   { return craftingRepo{s} }
func (s *Store) Economy() repository.Economy     { return economyRepo{s} }
func (s *Store) Companion() repository.Companion { return companionRepo{s} }
func (s *Store) Season() repository.Season       { return seasonRepo{s} }
func (s *Store) Outbox() repository.Outbox       { return outboxRepo{s} }

func (r craftingRepo) BeginTx(ctx context.Context) (repository.CraftingTx, error) {
	tx, err := r.begin("BeginTx")
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (r economyRepo) BeginTx(ctx context.Context) (repository.EconomyTx, error) {
	tx, err := r.begin("BeginTx")
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (r companionRepo) BeginTx(ctx context.Context) (repository.CompanionTx, error) {
	tx, err := r.begin("BeginTx")
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (r seasonRepo) BeginTx(ctx context.Context) (repository.SeasonTx, error) {
	tx, err := r.begin("BeginTx")
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (r outboxRepo) BeginTx(ctx context.Context) (repository.OutboxTx, error) {
	tx, err := r.begin("BeginTx")
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// ---- Seeding ----

// AddUser stores or replaces a user
func (s *Store) AddUser(u domain.User) {
	s.write(func(st *state) { st.users[u.ID] = u })
}

// AddItem stores or replaces a catalog item
func (s *Store) AddItem(item domain.Item) {
	s.write(func(st *state) { st.items[item.ID] = item })
}

// AddRecipe stores or replaces a recipe
func (s *Store) AddRecipe(r domain.CraftingRecipe) {
	s.write(func(st *state) { st.recipes[r.ID] = r })
}

// AddPet stores or replaces a catalog pet
func (s *Store) AddPet(p domain.Pet) {
	s.write(func(st *state) { st.pets[p.ID] = p })
}

// AddUserPet stores an owned pet
func (s *Store) AddUserPet(up domain.UserPet) {
	s.write(func(st *state) {
		if up.CreatedAt.IsZero() {
			up.CreatedAt = s.now().Add(time.Duration(st.nextID()) * time.Millisecond)
		}
		st.userPets[up.ID] = up
	})
}

// AddSeason stores a season and its tiers
func (s *Store) AddSeason(season domain.Season, tiers []domain.SeasonTier) {
	s.write(func(st *state) {
		st.seasons[season.ID] = season
		cp := append([]domain.SeasonTier(nil), tiers...)
		sort.Slice(cp, func(i, j int) bool { return cp[i].Tier < cp[j].Tier })
		st.tiers[season.ID] = cp
	})
}

// AddProgress stores season progress
func (s *Store) AddProgress(p domain.UserSeasonProgress) {
	s.write(func(st *state) { st.progress[progressKey{p.UserID, p.SeasonID}] = p })
}

// SetQuantity sets an inventory row; zero deletes it
func (s *Store) SetQuantity(userID, itemID string, qty int) {
	s.write(func(st *state) { setQuantity(st, userID, itemID, qty) })
}

func setQuantity(st *state, userID, itemID string, qty int) {
	inv, ok := st.inventory[userID]
	if !ok {
		inv = make(map[string]int)
		st.inventory[userID] = inv
	}
	if qty <= 0 {
		delete(inv, itemID)
		return
	}
	inv[itemID] = qty
}

// ---- Inspection ----

// User returns the committed user
func (s *Store) User(userID string) domain.User {
	var u domain.User
	s.read(func(st *state) { u = st.users[userID] })
	return u
}

// Quantity returns the committed inventory quantity
func (s *Store) Quantity(userID, itemID string) int {
	var q int
	s.read(func(st *state) { q = st.inventory[userID][itemID] })
	return q
}

// HasInventoryRow reports whether a row exists, zero rows must never exist
func (s *Store) HasInventoryRow(userID, itemID string) bool {
	var ok bool
	s.read(func(st *state) { _, ok = st.inventory[userID][itemID] })
	return ok
}

// UserPet returns the committed user pet
func (s *Store) UserPet(userPetID string) domain.UserPet {
	var up domain.UserPet
	s.read(func(st *state) { up = st.userPets[userPetID] })
	return up
}

// UserPetsOf returns every user pet of a user regardless of order
func (s *Store) UserPetsOf(userID string) []domain.UserPet {
	var out []domain.UserPet
	s.read(func(st *state) {
		for _, up := range st.userPets {
			if up.UserID == userID {
				out = append(out, up)
			}
		}
	})
	return out
}

// Progress returns committed season progress and whether it exists
func (s *Store) Progress(userID, seasonID string) (domain.UserSeasonProgress, bool) {
	var p domain.UserSeasonProgress
	var ok bool
	s.read(func(st *state) { p, ok = st.progress[progressKey{userID, seasonID}] })
	return p, ok
}

// SeasonsList returns all seasons ordered by number
func (s *Store) SeasonsList() []domain.Season {
	var out []domain.Season
	s.read(func(st *state) {
		for _, season := range st.seasons {
			out = append(out, season)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SeasonNumber < out[j].SeasonNumber })
	return out
}

// CraftingLogs returns every committed crafting log in insertion order
func (s *Store) CraftingLogs() []domain.CraftingLog {
	var out []domain.CraftingLog
	s.read(func(st *state) { out = append(out, st.craftingLogs...) })
	return out
}

// OutboxEvents returns every committed outbox event in insertion order
func (s *Store) OutboxEvents() []domain.OutboxEvent {
	var out []domain.OutboxEvent
	s.read(func(st *state) { out = append(out, st.outbox...) })
	return out
}

// OutboxEventsOfType filters OutboxEvents by type
func (s *Store) OutboxEventsOfType(eventType string) []domain.OutboxEvent {
	var out []domain.OutboxEvent
	for _, evt := range s.OutboxEvents() {
		if evt.Type == eventType {
			out = append(out, evt)
		}
	}
	return out
}

// FeedItems returns stored feed items
func (s *Store) FeedItems() []domain.FeedItemPayload {
	s.sinkMu.Lock()
	defer s.sinkMu.Unlock()
	return append([]domain.FeedItemPayload(nil), s.sinks.feed...)
}

// Activities returns stored activity rows
func (s *Store) Activities() []domain.ActivityLoggedPayload {
	s.sinkMu.Lock()
	defer s.sinkMu.Unlock()
	return append([]domain.ActivityLoggedPayload(nil), s.sinks.activities...)
}

// Notifications returns stored notifications
func (s *Store) Notifications() []Notification {
	s.sinkMu.Lock()
	defer s.sinkMu.Unlock()
	return append([]Notification(nil), s.sinks.notifications...)
}
