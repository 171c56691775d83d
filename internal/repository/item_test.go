package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"foundling/internal/cache"
	"foundling/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.LostItem{},
		&models.Message{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	user := &models.User{Email: email, Name: "Reporter"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestItemRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com")

	items := []*models.LostItem{
		{UserID: owner.ID, Title: "Black Wallet", Description: "Leather wallet", CategoryID: "bags", Location: "Central Park", DateLost: time.Now(), Status: models.ItemStatusActive},
		{UserID: owner.ID, Title: "iPhone 14", Description: "Cracked screen", CategoryID: "electronics", Location: "Union Square", DateLost: time.Now(), Status: models.ItemStatusActive},
		{UserID: owner.ID, Title: "House Keys", Description: "Three keys on a ring", CategoryID: "keys", Location: "central station", DateLost: time.Now(), Status: models.ItemStatusActive},
		{UserID: owner.ID, Title: "Old Umbrella", Description: "Already recovered", CategoryID: "other", Location: "Central Park", DateLost: time.Now(), Status: models.ItemStatusFound},
	}
	for _, it := range items {
		require.NoError(t, repo.Create(ctx, it))
	}

	t.Run("OnlyActiveItems", func(t *testing.T) {
		got, total, err := repo.List(ctx, models.ItemFilter{}, 1, 20)
		assert.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, got, 3)
		for _, it := range got {
			assert.Equal(t, models.ItemStatusActive, it.Status)
		}
	})

	t.Run("CategoryExactMatch", func(t *testing.T) {
		got, total, err := repo.List(ctx, models.ItemFilter{Category: "electronics"}, 1, 20)
		assert.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, got, 1)
		assert.Equal(t, "iPhone 14", got[0].Title)
	})

	t.Run("LocationCaseInsensitive", func(t *testing.T) {
		got, total, err := repo.List(ctx, models.ItemFilter{Location: "CENTRAL"}, 1, 20)
		assert.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, got, 2)
	})

	t.Run("SearchTitleOrDescription", func(t *testing.T) {
		got, total, err := repo.List(ctx, models.ItemFilter{Search: "keys"}, 1, 20)
		assert.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, got, 1)
		assert.Equal(t, "House Keys", got[0].Title)

		_, total, err = repo.List(ctx, models.ItemFilter{Search: "cracked"}, 1, 20)
		assert.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})

	t.Run("OwnerPreloaded", func(t *testing.T) {
		got, _, err := repo.List(ctx, models.ItemFilter{Category: "bags"}, 1, 20)
		assert.NoError(t, err)
		require.Len(t, got, 1)
		require.NotNil(t, got[0].User)
		assert.Equal(t, "Reporter", got[0].User.Name)
	})
}

func TestItemRepository_Pagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com")

	for i := 0; i < 5; i++ {
		item := &models.LostItem{
			UserID:     owner.ID,
			Title:      fmt.Sprintf("Item %d", i),
			CategoryID: "other",
			Location:   "Somewhere",
			DateLost:   time.Now(),
			Status:     models.ItemStatusActive,
			CreatedAt:  time.Now().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(item).Error)
	}

	page1, total, err := repo.List(ctx, models.ItemFilter{}, 1, 2)
	assert.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page1, 2)
	// Newest first
	assert.Equal(t, "Item 4", page1[0].Title)

	page3, total, err := repo.List(ctx, models.ItemFilter{}, 3, 2)
	assert.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page3, 1)
}

func TestItemRepository_GetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com")

	item := &models.LostItem{
		UserID:     owner.ID,
		Title:      "Silver Ring",
		CategoryID: "jewelry",
		Location:   "Beach",
		DateLost:   time.Now(),
		Status:     models.ItemStatusActive,
		Images:     models.ImageList{"data:image/jpeg;base64,AAAA"},
	}
	require.NoError(t, repo.Create(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Silver Ring", got.Title)
	assert.Equal(t, models.ImageList{"data:image/jpeg;base64,AAAA"}, got.Images)
	require.NotNil(t, got.User)
	assert.Equal(t, owner.Email, got.User.Email)

	_, err = repo.GetByID(ctx, 9999)
	assert.Error(t, err)
}

func TestItemRepository_GetByID_CachedOwnerSurvives(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	db := setupTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com")

	item := &models.LostItem{
		UserID:     owner.ID,
		Title:      "Gold Watch",
		CategoryID: "jewelry",
		Location:   "Ferry terminal",
		DateLost:   time.Now(),
		Status:     models.ItemStatusActive,
	}
	require.NoError(t, repo.Create(ctx, item))

	// First fetch populates the cache from the database.
	first, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, first.User)
	assert.True(t, mr.Exists(cache.ItemKey(item.ID)))

	// Second fetch is served from the cache and must still carry the owner.
	second, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, second.User)
	assert.Equal(t, owner.Email, second.User.Email)
	assert.Equal(t, owner.Name, second.User.Name)
}

func TestItemRepository_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com")

	item := &models.LostItem{
		UserID:     owner.ID,
		Title:      "Backpack",
		CategoryID: "bags",
		Location:   "Bus stop",
		DateLost:   time.Now(),
		Status:     models.ItemStatusActive,
	}
	require.NoError(t, repo.Create(ctx, item))

	require.NoError(t, repo.UpdateStatus(ctx, item.ID, models.ItemStatusFound))

	var reloaded models.LostItem
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	assert.Equal(t, models.ItemStatusFound, reloaded.Status)

	// Found items drop out of the browse listing
	_, total, err := repo.List(ctx, models.ItemFilter{}, 1, 20)
	assert.NoError(t, err)
	assert.EqualValues(t, 0, total)

	err = repo.UpdateStatus(ctx, 9999, models.ItemStatusClosed)
	assert.Error(t, err)
}

func TestItemRepository_ListByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")

	require.NoError(t, repo.Create(ctx, &models.LostItem{UserID: owner.ID, Title: "Mine", CategoryID: "other", Location: "A", DateLost: time.Now(), Status: models.ItemStatusActive}))
	require.NoError(t, repo.Create(ctx, &models.LostItem{UserID: owner.ID, Title: "Also Mine", CategoryID: "other", Location: "B", DateLost: time.Now(), Status: models.ItemStatusFound}))
	require.NoError(t, repo.Create(ctx, &models.LostItem{UserID: other.ID, Title: "Theirs", CategoryID: "other", Location: "C", DateLost: time.Now(), Status: models.ItemStatusActive}))

	mine, err := repo.ListByUser(ctx, owner.ID)
	assert.NoError(t, err)
	assert.Len(t, mine, 2)
}
