package seed

import (
	"testing"

	"foundling/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.LostItem{}, &models.Message{}))
	return db
}

func TestSeederRun(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(Options{NumUsers: 5, NumItems: 12}))

	var userCount, itemCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.LostItem{}).Count(&itemCount).Error)
	assert.EqualValues(t, 5, userCount)
	assert.EqualValues(t, 12, itemCount)

	var items []models.LostItem
	require.NoError(t, db.Find(&items).Error)
	for _, item := range items {
		assert.True(t, models.ValidCategoryID(item.CategoryID), "category %q", item.CategoryID)
		assert.True(t, models.ValidItemStatus(item.Status), "status %q", item.Status)
		assert.NotEmpty(t, item.Title)
		assert.NotEmpty(t, item.Location)
	}

	// Messages always pair an inquiry with a reply.
	var messageCount int64
	require.NoError(t, db.Model(&models.Message{}).Count(&messageCount).Error)
	assert.Zero(t, messageCount%2)
}

func TestSeederClearAll(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(Options{NumUsers: 3, NumItems: 5}))
	require.NoError(t, s.ClearAll())

	for _, model := range []interface{}{&models.User{}, &models.LostItem{}, &models.Message{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}
