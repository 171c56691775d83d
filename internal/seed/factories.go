// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and demos only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"foundling/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a fake account.
func (f *Factory) CreateUser() (*models.User, error) {
	user := &models.User{
		Email:     gofakeit.Email(),
		Name:      gofakeit.Name(),
		AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// itemTemplates gives the generated reports plausible lost-and-found flavor
// per category instead of generic product names.
var itemTemplates = map[string][]string{
	"electronics": {"iPhone", "Android phone", "Laptop", "Kindle", "Wireless earbuds", "Smartwatch"},
	"clothing":    {"Denim jacket", "Wool scarf", "Baseball cap", "Raincoat", "Hoodie"},
	"keys":        {"House keys", "Car keys", "Office keycard", "Bike lock key"},
	"jewelry":     {"Silver ring", "Gold necklace", "Bracelet", "Wristwatch", "Earring"},
	"bags":        {"Backpack", "Leather wallet", "Handbag", "Messenger bag", "Tote bag"},
	"documents":   {"Passport", "Student ID", "Driver's license", "Notebook"},
	"pets":        {"Tabby cat", "Beagle", "Parakeet", "Golden retriever"},
	"other":       {"Umbrella", "Water bottle", "Glasses", "Skateboard", "Book"},
}

// CreateLostItem persists a fake report owned by user.
func (f *Factory) CreateLostItem(user *models.User, overrides ...func(*models.LostItem)) (*models.LostItem, error) {
	categories := models.Categories()
	category := categories[f.rng.Intn(len(categories))]

	names := itemTemplates[category.ID]
	name := names[f.rng.Intn(len(names))]

	colors := []string{"black", "blue", "red", "green", "brown", "gray", "white"}
	now := time.Now()

	item := &models.LostItem{
		UserID:      user.ID,
		Title:       fmt.Sprintf("%s %s", colors[f.rng.Intn(len(colors))], name),
		Description: gofakeit.Sentence(12),
		CategoryID:  category.ID,
		Location:    fmt.Sprintf("%s, %s", gofakeit.Street(), gofakeit.City()),
		DateLost:    gofakeit.DateRange(now.AddDate(0, -2, 0), now),
		ContactInfo: gofakeit.Phone(),
		Status:      models.ItemStatusActive,
	}
	// A share of seeded reports is already resolved.
	if f.rng.Intn(100) < 20 {
		item.Status = models.ItemStatusFound
	}
	item.CreatedAt = item.DateLost.Add(time.Duration(f.rng.Intn(48)) * time.Hour)

	for _, override := range overrides {
		override(item)
	}

	if err := f.db.Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// CreateMessage persists a fake message from sender to receiver about item.
func (f *Factory) CreateMessage(sender, receiver *models.User, item *models.LostItem) (*models.Message, error) {
	openers := []string{
		"Hi, I think I found your %s. Is it still missing?",
		"Saw something like your %s near the station today.",
		"Is this %s still lost? I may have seen it.",
		"Found a %s matching your description, can you confirm?",
	}
	msg := &models.Message{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		ItemID:     item.ID,
		Content:    fmt.Sprintf(openers[f.rng.Intn(len(openers))], item.Title),
		CreatedAt:  item.CreatedAt.Add(time.Duration(f.rng.Intn(72)) * time.Hour),
	}
	if err := f.db.Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}
