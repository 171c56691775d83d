package service

import (
	"context"
	"strings"
	"time"

	"foundling/internal/imaging"
	"foundling/internal/models"
	"foundling/internal/repository"
)

// ItemService provides lost item reporting and browsing business logic.
type ItemService struct {
	itemRepo repository.ItemRepository
	userRepo repository.UserRepository
}

// ReportItemInput is the input for reporting a lost item.
type ReportItemInput struct {
	UserID      uint
	Title       string
	Description string
	CategoryID  string
	Location    string
	DateLost    string
	ContactInfo string
	Images      [][]byte
}

// ItemsPage is one page of browse results.
type ItemsPage struct {
	Items []models.ItemWithOwner `json:"items"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Pages int                    `json:"pages"`
}

// ProfileStats summarizes a user's reporting activity.
type ProfileStats struct {
	TotalReported int `json:"total_reported"`
	ActiveItems   int `json:"active_items"`
	FoundItems    int `json:"found_items"`
}

// ProfileView is the profile payload: the account, its reports and stats.
type ProfileView struct {
	User      *models.User       `json:"user"`
	LostItems []*models.LostItem `json:"lost_items"`
	Stats     ProfileStats       `json:"stats"`
}

// NewItemService returns a new ItemService.
func NewItemService(itemRepo repository.ItemRepository, userRepo repository.UserRepository) *ItemService {
	return &ItemService{itemRepo: itemRepo, userRepo: userRepo}
}

// dateLostLayouts are accepted in order; date pickers commonly submit
// a bare date while API clients send full RFC 3339 timestamps.
var dateLostLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDateLost(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLostLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, models.NewValidationError("Invalid date_lost format")
}

// Report validates and persists a new lost item report. At most
// MaxItemImages photos are kept; extras are ignored.
func (s *ItemService) Report(ctx context.Context, in ReportItemInput) (*models.LostItem, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, models.NewValidationError("Description is required")
	}
	if strings.TrimSpace(in.Location) == "" {
		return nil, models.NewValidationError("Location is required")
	}
	if !models.ValidCategoryID(in.CategoryID) {
		return nil, models.NewValidationError("Unknown category")
	}
	dateLost, err := parseDateLost(in.DateLost)
	if err != nil {
		return nil, err
	}

	images := in.Images
	if len(images) > models.MaxItemImages {
		images = images[:models.MaxItemImages]
	}
	normalized := make(models.ImageList, 0, len(images))
	for _, raw := range images {
		dataURI, err := imaging.Normalize(raw)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, dataURI)
	}

	item := &models.LostItem{
		UserID:      in.UserID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		CategoryID:  in.CategoryID,
		Location:    strings.TrimSpace(in.Location),
		DateLost:    dateLost,
		ContactInfo: strings.TrimSpace(in.ContactInfo),
		Images:      normalized,
		Status:      models.ItemStatusActive,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func withOwner(item *models.LostItem) models.ItemWithOwner {
	out := models.ItemWithOwner{LostItem: *item}
	if item.User != nil {
		profile := item.User.Public()
		out.Owner = &profile
	}
	return out
}

// Browse returns one page of active items matching the filter.
func (s *ItemService) Browse(ctx context.Context, filter models.ItemFilter, page, limit int) (*ItemsPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	items, total, err := s.itemRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	out := make([]models.ItemWithOwner, 0, len(items))
	for _, item := range items {
		out = append(out, withOwner(item))
	}
	return &ItemsPage{
		Items: out,
		Total: total,
		Page:  page,
		Pages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// Get returns a single item with its reporter's public profile.
func (s *ItemService) Get(ctx context.Context, id uint) (*models.ItemWithOwner, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := withOwner(item)
	return &out, nil
}

// UpdateStatus changes an item's status. Only the reporter may do so.
func (s *ItemService) UpdateStatus(ctx context.Context, userID, itemID uint, status string) (*models.LostItem, error) {
	if !models.ValidItemStatus(status) {
		return nil, models.NewValidationError("Unknown status")
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, models.NewForbiddenError("Only the reporter can update this item")
	}

	if err := s.itemRepo.UpdateStatus(ctx, itemID, status); err != nil {
		return nil, err
	}
	item.Status = status
	return item, nil
}

// Profile returns the account with its reports and activity stats.
func (s *ItemService) Profile(ctx context.Context, userID uint) (*ProfileView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := ProfileStats{TotalReported: len(items)}
	for _, item := range items {
		switch item.Status {
		case models.ItemStatusActive:
			stats.ActiveItems++
		case models.ItemStatusFound:
			stats.FoundItems++
		}
	}

	return &ProfileView{User: user, LostItems: items, Stats: stats}, nil
}
