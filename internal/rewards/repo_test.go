package rewards

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
)

const testCampaign = "dreamplay-one"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Reward{}))
	return db
}

func seed(t *testing.T, db *gorm.DB, title string, price string, sortOrder int, visible bool) uuid.UUID {
	t.Helper()
	reward := &models.Reward{
		ID:         uuid.New(),
		CampaignID: testCampaign,
		Title:      title,
		Price:      decimal.RequireFromString(price),
		IsVisible:  visible,
		SortOrder:  sortOrder,
	}
	require.NoError(t, db.Create(reward).Error)
	return reward.ID
}

func TestRepositoryListOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	third := seed(t, db, "Third", "300", 1, true)
	first := seed(t, db, "First", "100", 0, true)
	second := seed(t, db, "Second", "200", 0, true)
	hidden := seed(t, db, "Hidden", "50", 0, false)

	all, err := repo.ListByCampaign(ctx, testCampaign, false)
	require.NoError(t, err)
	require.Len(t, all, 4)

	visible, err := repo.ListByCampaign(ctx, testCampaign, true)
	require.NoError(t, err)
	require.Len(t, visible, 3)
	require.Equal(t, []uuid.UUID{first, second, third},
		[]uuid.UUID{visible[0].ID, visible[1].ID, visible[2].ID},
		"sort_order first, then price")
	for _, reward := range visible {
		require.NotEqual(t, hidden, reward.ID)
	}
}

func TestRepositoryCreateKeepsHiddenDraftsHidden(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	draft := &models.Reward{
		ID:         uuid.New(),
		CampaignID: testCampaign,
		Title:      "Draft tier",
		Price:      decimal.RequireFromString("99"),
		IsVisible:  false,
	}
	require.NoError(t, repo.Create(ctx, draft))

	got, err := repo.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	require.False(t, got.IsVisible, "hidden draft must not surface as visible after insert")

	visible, err := repo.ListByCampaign(ctx, testCampaign, true)
	require.NoError(t, err)
	require.Empty(t, visible)
}

func TestRepositoryIncrementBackers(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	id := seed(t, db, "Tier", "10", 0, true)
	require.NoError(t, repo.IncrementBackers(ctx, id, 1))
	require.NoError(t, repo.IncrementBackers(ctx, id, 1))

	reward, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 2, reward.BackersCount)

	require.ErrorIs(t, repo.IncrementBackers(ctx, uuid.New(), 1), gorm.ErrRecordNotFound)
}

func TestRepositorySetBackerCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	busy := seed(t, db, "Busy", "10", 0, true)
	idle := seed(t, db, "Idle", "20", 1, true)
	require.NoError(t, repo.IncrementBackers(ctx, idle, 9))

	require.NoError(t, repo.SetBackerCounts(ctx, testCampaign, map[uuid.UUID]int64{busy: 4}))

	got, err := repo.GetByID(ctx, busy)
	require.NoError(t, err)
	require.Equal(t, 4, got.BackersCount)
	got, err = repo.GetByID(ctx, idle)
	require.NoError(t, err)
	require.Equal(t, 0, got.BackersCount, "rewards without pledges reset to zero")
}

func TestRepositorySetSortOrders(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	a := seed(t, db, "A", "10", 0, true)
	b := seed(t, db, "B", "20", 1, true)
	c := seed(t, db, "C", "30", 2, true)

	require.NoError(t, repo.SetSortOrders(ctx, testCampaign, []uuid.UUID{c, a, b}))

	rewards, err := repo.ListByCampaign(ctx, testCampaign, false)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{c, a, b},
		[]uuid.UUID{rewards[0].ID, rewards[1].ID, rewards[2].ID})
}

func TestRepositoryUpdateFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	id := seed(t, db, "Tier", "10", 0, true)
	require.NoError(t, repo.UpdateFields(ctx, id, map[string]any{
		"title":       "Renamed",
		"is_sold_out": true,
	}))

	reward, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Renamed", reward.Title)
	require.True(t, reward.IsSoldOut)

	require.ErrorIs(t,
		repo.UpdateFields(ctx, uuid.New(), map[string]any{"title": "x"}),
		gorm.ErrRecordNotFound)
}
