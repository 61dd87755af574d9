package postgres

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/Ascend_Go/internal/database"
	"github.com/osse101/Ascend_Go/internal/domain"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()
	if !testing.Short() {
		testPool, terminate = setupDatabase(context.Background())
	}

	code := m.Run()

	if testPool != nil {
		testPool.Close()
	}
	if terminate != nil {
		terminate()
	}
	os.Exit(code)
}

func setupDatabase(ctx context.Context) (*pgxpool.Pool, func()) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic in setupDatabase: %v\n", r)
		}
	}()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return nil, func() {}
	}
	terminate := func() {
		if err := container.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		return nil, terminate
	}

	pool, err := database.NewPool(ctx, connStr, 10, time.Minute, 5*time.Minute)
	if err != nil {
		fmt.Printf("WARNING: Failed to connect: %v\n", err)
		return nil, terminate
	}
	if _, err := database.Migrate(ctx, pool); err != nil {
		fmt.Printf("WARNING: Failed to migrate: %v\n", err)
		pool.Close()
		return nil, terminate
	}
	return pool, terminate
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testPool == nil {
		t.Skip("Skipping integration test: database not available")
	}
	return NewStore(testPool)
}

func createUser(t *testing.T, s *Store, gold int64) string {
	t.Helper()
	id, err := s.CreateUser(context.Background(), domain.User{
		Username: "user-" + uuid.NewString()[:8],
		Gold:     decimal.NewFromInt(gold),
		Level:    1,
	})
	require.NoError(t, err)
	return id
}

func seedItem(t *testing.T, s *Store, id string) {
	t.Helper()
	require.NoError(t, s.UpsertItem(context.Background(), domain.Item{
		ID:         id,
		Name:       id,
		Rarity:     domain.RarityCommon,
		IsTradable: true,
	}))
}

func TestUsers_GoldLedger(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := createUser(t, s, 100)

	tx, err := s.Economy().BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.AddGold(ctx, userID, decimal.NewFromFloat(-40.5)))
	err = tx.AddGold(ctx, userID, decimal.NewFromInt(-100))
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	require.NoError(t, tx.AddDiamonds(ctx, userID, 3))
	require.NoError(t, tx.Commit(ctx))

	user, err := s.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(59.5).Equal(user.Gold), "gold = %s", user.Gold)
	assert.Equal(t, 3, user.Diamonds)

	_, err = s.GetUser(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = s.GetUser(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = s.CreateUser(ctx, domain.User{Username: user.Username})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestTx_RollbackDiscardsWrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := createUser(t, s, 10)

	tx, err := s.Economy().BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.AddGold(ctx, userID, decimal.NewFromInt(50)))
	require.NoError(t, tx.Rollback(ctx))
	require.NoError(t, tx.Rollback(ctx), "second rollback is a no-op")

	user, err := s.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(user.Gold))
}

func TestInventory_AddAndRemove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := createUser(t, s, 0)
	itemID := "ore-" + uuid.NewString()[:8]
	seedItem(t, s, itemID)

	tx, err := s.Economy().BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	require.NoError(t, tx.AddInventoryItem(ctx, userID, itemID, 3))
	require.NoError(t, tx.AddInventoryItem(ctx, userID, itemID, 2))
	assert.ErrorIs(t, tx.AddInventoryItem(ctx, userID, "no-such-item", 1), domain.ErrItemNotFound)

	qty, err := tx.GetInventoryQuantities(ctx, userID, []string{itemID, "no-such-item"})
	require.NoError(t, err)
	assert.Equal(t, 5, qty[itemID])
	assert.Zero(t, qty["no-such-item"])

	assert.ErrorIs(t, tx.RemoveInventoryItem(ctx, userID, itemID, 6), domain.ErrInsufficientQuantity)
	require.NoError(t, tx.RemoveInventoryItem(ctx, userID, itemID, 2))
	require.NoError(t, tx.RemoveInventoryItem(ctx, userID, itemID, 3))

	qty, err = tx.GetInventoryQuantities(ctx, userID, []string{itemID})
	require.NoError(t, err)
	assert.Zero(t, qty[itemID])

	var rows int
	require.NoError(t, tx.(*Tx).tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM inventory_items WHERE user_id = $1`, userID).Scan(&rows))
	assert.Zero(t, rows, "empty stacks are deleted")
}

func TestCatalog_UpsertAndRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	suffix := uuid.NewString()[:8]
	power := 12

	item := domain.Item{
		ID:         "blade-" + suffix,
		Name:       "Blade",
		Rarity:     domain.RarityRare,
		Power:      &power,
		Stats:      &domain.ItemStats{Atk: 4, Crit: 0.5},
		IsTradable: true,
	}
	require.NoError(t, s.UpsertItem(ctx, item))
	item.Name = "Sharper Blade"
	require.NoError(t, s.UpsertItem(ctx, item))

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item, *got)

	seedItem(t, s, "ore-"+suffix)
	recipe := domain.CraftingRecipe{
		ID:           "forge-" + suffix,
		Name:         "Forge",
		InputItemIDs: []string{"ore-" + suffix, "ore-" + suffix},
		OutputItemID: item.ID,
		GoldCost:     25,
		UnlockLevel:  3,
		SuccessRate:  80,
		RarityBoost:  true,
	}
	require.NoError(t, s.UpsertRecipe(ctx, recipe))
	gotRecipe, err := s.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe, *gotRecipe)

	pet := domain.Pet{
		ID:      "fox-" + suffix,
		Name:    "Fox",
		Type:    domain.PetTypeCompanion,
		Rarity:  domain.RarityEpic,
		Bonuses: domain.PetBonuses{Atk: 2, XP: 0.1},
	}
	require.NoError(t, s.UpsertPet(ctx, pet))
	gotPet, err := s.GetPet(ctx, pet.ID)
	require.NoError(t, err)
	assert.Equal(t, pet, *gotPet)

	_, err = s.GetItem(ctx, "missing-"+suffix)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	_, err = s.GetRecipe(ctx, "missing-"+suffix)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	_, err = s.GetPet(ctx, "missing-"+suffix)
	assert.ErrorIs(t, err, domain.ErrPetNotFound)

	recipes, err := s.ListRecipes(ctx)
	require.NoError(t, err)
	for i := 1; i < len(recipes); i++ {
		assert.LessOrEqual(t, recipes[i-1].UnlockLevel, recipes[i].UnlockLevel)
	}
}

func TestCraftingLogs_AppendOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := createUser(t, s, 0)
	rarity := domain.RarityUncommon

	tx, err := s.Crafting().BeginTx(ctx)
	require.NoError(t, err)
	older, err := tx.InsertCraftingLog(ctx, &domain.CraftingLog{
		UserID:    userID,
		RecipeID:  "forge",
		Inputs:    []domain.CraftingLogInput{{ItemID: "ore", Name: "Ore", Rarity: domain.RarityCommon}},
		Success:   false,
		GoldSpent: 5,
		CraftedAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)
	newer, err := tx.InsertCraftingLog(ctx, &domain.CraftingLog{
		UserID:         userID,
		RecipeID:       "forge",
		Inputs:         []domain.CraftingLogInput{{ItemID: "ore", Name: "Ore", Rarity: domain.RarityCommon}},
		Output:         &domain.CraftedItem{ItemID: "blade", Name: "Blade", Rarity: rarity},
		Success:        true,
		GoldSpent:      5,
		RarityAchieved: &rarity,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	logs, err := s.GetCraftingLogs(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, newer, logs[0].ID)
	assert.Equal(t, older, logs[1].ID)
	require.NotNil(t, logs[0].Output)
	assert.Equal(t, "blade", logs[0].Output.ItemID)
	assert.Nil(t, logs[1].Output)

	_, err = testPool.Exec(ctx, `UPDATE crafting_logs SET success = TRUE WHERE log_id = $1`, older)
	assert.Error(t, err, "crafting logs reject updates")

	_, err = testPool.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	require.Error(t, err, "a user with crafting history cannot be deleted")
	assert.Equal(t, PgErrorCodeForeignKeyViolation, pgCode(err))

	idle := createUser(t, s, 0)
	_, err = testPool.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, idle)
	assert.NoError(t, err)
}

func TestPets_OneEquippedPerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := createUser(t, s, 0)
	petID := "wolf-" + uuid.NewString()[:8]
	require.NoError(t, s.UpsertPet(ctx, domain.Pet{ID: petID, Name: "Wolf", Type: domain.PetTypeCompanion, Rarity: domain.RarityCommon}))

	tx, err := s.Companion().BeginTx(ctx)
	require.NoError(t, err)
	first, err := tx.InsertUserPet(ctx, userID, petID)
	require.NoError(t, err)
	second, err := tx.InsertUserPet(ctx, userID, petID)
	require.NoError(t, err)
	_, err = tx.InsertUserPet(ctx, userID, "no-such-pet")
	assert.ErrorIs(t, err, domain.ErrPetNotFound)
	require.NoError(t, tx.SetPetEquipped(ctx, first, true))
	require.NoError(t, tx.Commit(ctx))

	oldest, err := s.Companion().BeginTx(ctx)
	require.NoError(t, err)
	found, err := oldest.FindUserPet(ctx, userID, petID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first, found.ID)
	require.NoError(t, oldest.Rollback(ctx))

	// Equipping a second pet without unequipping the first violates the index
	tx, err = s.Companion().BeginTx(ctx)
	require.NoError(t, err)
	assert.Error(t, tx.SetPetEquipped(ctx, second, true))
	require.NoError(t, tx.Rollback(ctx))

	tx, err = s.Companion().BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.UnequipAllPets(ctx, userID))
	require.NoError(t, tx.SetPetEquipped(ctx, second, true))
	require.NoError(t, tx.Commit(ctx))

	owned, err := s.GetUserPets(ctx, userID)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, second, owned[0].ID, "equipped pet sorts first")
	assert.Equal(t, petID, owned[0].Pet.ID)

	equipped, err := s.GetEquippedPets(ctx, userID)
	require.NoError(t, err)
	require.Len(t, equipped, 1)
	assert.Equal(t, second, equipped[0].ID)
}

func TestSeason_ProgressAndClaims(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := createUser(t, s, 0)

	tx, err := s.Season().BeginTx(ctx)
	require.NoError(t, err)
	latest, err := tx.GetLatestSeasonNumber(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.DeactivateSeasons(ctx))
	now := time.Now().UTC().Truncate(time.Second)
	seasonID, err := tx.InsertSeason(ctx, &domain.Season{
		Name:         "Test Season",
		SeasonNumber: latest + 1,
		StartsAt:     now,
		EndsAt:       now.Add(24 * time.Hour),
		IsActive:     true,
	})
	require.NoError(t, err)
	require.NoError(t, tx.InsertSeasonTiers(ctx, seasonID, []domain.SeasonTier{
		{Tier: 2, XPRequired: 200, PremiumReward: domain.DiamondsReward{Amount: 5}},
		{Tier: 1, XPRequired: 100, FreeReward: domain.GoldReward{Amount: 50}},
	}))
	require.NoError(t, tx.Commit(ctx))

	active, err := s.GetActiveSeason(ctx)
	require.NoError(t, err)
	assert.Equal(t, seasonID, active.ID)
	assert.Equal(t, latest+1, active.SeasonNumber)

	tiers, err := s.GetSeasonTiers(ctx, seasonID)
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, 1, tiers[0].Tier)
	assert.Equal(t, domain.GoldReward{Amount: 50}, tiers[0].FreeReward)
	assert.Nil(t, tiers[0].PremiumReward)
	assert.Equal(t, domain.DiamondsReward{Amount: 5}, tiers[1].PremiumReward)

	tx, err = s.Season().BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.GetProgressForUpdate(ctx, userID, seasonID)
	assert.ErrorIs(t, err, domain.ErrProgressNotFound)
	progress, err := tx.CreateProgress(ctx, userID, seasonID)
	require.NoError(t, err)
	assert.Zero(t, progress.XP)
	assert.Empty(t, progress.ClaimedFree)
	require.NoError(t, tx.UpdateProgress(ctx, userID, seasonID, 150, 1))
	require.NoError(t, tx.AddClaimedTier(ctx, userID, seasonID, domain.TrackFree, 1))
	assert.ErrorIs(t, tx.AddClaimedTier(ctx, userID, seasonID, domain.TrackFree, 1), domain.ErrAlreadyClaimed)
	require.NoError(t, tx.AddClaimedTier(ctx, userID, seasonID, domain.TrackPremium, 1))
	require.NoError(t, tx.Commit(ctx))

	tx, err = s.Season().BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()
	again, err := tx.CreateProgress(ctx, userID, seasonID)
	require.NoError(t, err)
	assert.Equal(t, 150, again.XP, "existing progress is kept")
	assert.Equal(t, 1, again.CurrentTier)
	assert.Equal(t, []int{1}, again.ClaimedFree)
	assert.Equal(t, []int{1}, again.ClaimedPremium)
	require.NoError(t, tx.Rollback(ctx))

	tx, err = s.Season().BeginTx(ctx)
	require.NoError(t, err)
	closed, err := tx.DeactivateSeason(ctx, seasonID)
	require.NoError(t, err)
	assert.True(t, closed)
	closed, err = tx.DeactivateSeason(ctx, seasonID)
	require.NoError(t, err)
	assert.False(t, closed, "an inactive season is not closed again")
	closed, err = tx.DeactivateSeason(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.False(t, closed)
}

func TestSeason_MalformedRewardDecodesAsUnknown(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tx, err := s.Season().BeginTx(ctx)
	require.NoError(t, err)
	latest, err := tx.GetLatestSeasonNumber(ctx)
	require.NoError(t, err)
	now := time.Now().UTC()
	seasonID, err := tx.InsertSeason(ctx, &domain.Season{
		Name:         "Archive",
		SeasonNumber: latest + 1,
		StartsAt:     now.Add(-48 * time.Hour),
		EndsAt:       now.Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	_, err = testPool.Exec(ctx, `
		INSERT INTO season_tiers (season_id, tier, xp_required, free_reward)
		VALUES ($1, 1, 10, '{"type":"title","text":"Champion"}')`, seasonID)
	require.NoError(t, err)

	tiers, err := s.GetSeasonTiers(ctx, seasonID)
	require.NoError(t, err)
	require.Len(t, tiers, 1)
	unknown, ok := tiers[0].FreeReward.(domain.UnknownReward)
	require.True(t, ok, "got %T", tiers[0].FreeReward)
	assert.Equal(t, "title", unknown.RawType)
}

func TestOutbox_SkipLockedAndDispatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	writer, err := s.Economy().BeginTx(ctx)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		evt, err := domain.NewOutboxEvent("test.event", map[string]int{"n": i})
		require.NoError(t, err)
		require.NoError(t, writer.EnqueueEvent(ctx, evt))
	}
	require.NoError(t, writer.Commit(ctx))

	pending, err := s.CountPending(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, pending, 3)

	first, err := s.Outbox().BeginTx(ctx)
	require.NoError(t, err)
	claimed, err := first.LockPending(ctx, 1000)
	require.NoError(t, err)
	require.Len(t, claimed, pending)
	for i := 1; i < len(claimed); i++ {
		assert.Less(t, claimed[i-1].ID, claimed[i].ID)
	}

	second, err := s.Outbox().BeginTx(ctx)
	require.NoError(t, err)
	none, err := second.LockPending(ctx, 1000)
	require.NoError(t, err)
	assert.Empty(t, none, "rows locked by another relay are skipped")
	require.NoError(t, second.Rollback(ctx))

	ids := make([]int64, len(claimed))
	for i, evt := range claimed {
		ids[i] = evt.ID
	}
	require.NoError(t, first.MarkDispatched(ctx, ids))
	require.NoError(t, first.Commit(ctx))

	pending, err = s.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)

	kept, err := s.DeleteDispatchedBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, kept, "fresh rows are inside the retention window")

	pruned, err := s.DeleteDispatchedBefore(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pruned, int64(len(ids)))
}

func TestSinks_DedupeByEventID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	eventID := time.Now().UnixNano()

	item := domain.FeedItemPayload{UserID: "u1", Type: "craft", Title: "Crafted a blade"}
	inserted, err := s.InsertFeedItem(ctx, eventID, item)
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = s.InsertFeedItem(ctx, eventID, item)
	require.NoError(t, err)
	assert.False(t, inserted)

	activity := domain.ActivityLoggedPayload{UserID: "u1", Action: "craft", Summary: "crafted", Detail: map[string]interface{}{"recipe": "forge"}}
	inserted, err = s.InsertActivity(ctx, eventID, activity)
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = s.InsertActivity(ctx, eventID, activity)
	require.NoError(t, err)
	assert.False(t, inserted)

	payload := json.RawMessage(`{"tier":2}`)
	inserted, err = s.InsertNotification(ctx, eventID, "u1", "tier_up", payload)
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = s.InsertNotification(ctx, eventID, "u1", "tier_up", payload)
	require.NoError(t, err)
	assert.False(t, inserted)
	inserted, err = s.InsertNotification(ctx, eventID, "u1", "reward", payload)
	require.NoError(t, err)
	assert.True(t, inserted, "a different kind for the same event is a separate row")
}
