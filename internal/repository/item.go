package repository

import (
	"context"
	"errors"
	"strings"

	"foundling/internal/cache"
	"foundling/internal/models"

	"gorm.io/gorm"
)

// ItemRepository defines the interface for lost item data operations
type ItemRepository interface {
	Create(ctx context.Context, item *models.LostItem) error
	GetByID(ctx context.Context, id uint) (*models.LostItem, error)
	List(ctx context.Context, filter models.ItemFilter, page, limit int) ([]*models.LostItem, int64, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.LostItem, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

// itemRepository implements ItemRepository
type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new lost item repository
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *models.LostItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// cachedItem is the cache envelope for GetByID. LostItem.User is excluded
// from JSON responses, so the preloaded owner is carried in a separate field
// to survive the marshal round trip through Redis.
type cachedItem struct {
	Item  models.LostItem `json:"item"`
	Owner *models.User    `json:"owner,omitempty"`
}

func (r *itemRepository) GetByID(ctx context.Context, id uint) (*models.LostItem, error) {
	var entry cachedItem
	key := cache.ItemKey(id)

	err := cache.Aside(ctx, key, &entry, cache.ItemTTL, func() error {
		if err := r.db.WithContext(ctx).Preload("User").First(&entry.Item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Item", id)
			}
			return models.NewInternalError(err)
		}
		entry.Owner = entry.Item.User
		return nil
	})

	if err != nil {
		return nil, err
	}
	item := entry.Item
	item.User = entry.Owner
	return &item, nil
}

// applyFilter narrows the query to active items matching the browse filters.
// LOWER(...) LIKE is used instead of ILIKE so the same queries run on both
// PostgreSQL and the sqlite driver used in tests.
func applyFilter(db *gorm.DB, filter models.ItemFilter) *gorm.DB {
	db = db.Where("status = ?", models.ItemStatusActive)
	if filter.Category != "" {
		db = db.Where("category_id = ?", filter.Category)
	}
	if filter.Location != "" {
		db = db.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(filter.Location)+"%")
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	return db
}

func (r *itemRepository) List(ctx context.Context, filter models.ItemFilter, page, limit int) ([]*models.LostItem, int64, error) {
	var items []*models.LostItem
	var total int64

	if err := applyFilter(r.db.WithContext(ctx).Model(&models.LostItem{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	offset := (page - 1) * limit
	if err := applyFilter(r.db.WithContext(ctx), filter).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return items, total, nil
}

func (r *itemRepository) ListByUser(ctx context.Context, userID uint) ([]*models.LostItem, error) {
	var items []*models.LostItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *itemRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.LostItem{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Item", id)
	}
	cache.InvalidateItem(ctx, id)
	return nil
}
