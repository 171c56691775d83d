package seed

import (
	"fmt"
	"log"

	"foundling/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumItems    int
	ShouldClean bool
}

// Seeder populates the database with demo users, reports and conversations.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all seeded data. Child tables go first so foreign keys
// stay satisfied on engines that enforce them.
func (s *Seeder) ClearAll() error {
	for _, model := range []interface{}{
		&models.Message{},
		&models.LostItem{},
		&models.User{},
	} {
		if err := s.db.Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", model, err)
		}
	}
	log.Println("Cleared existing data")
	return nil
}

// Run seeds users, lost item reports, and a message thread per report so the
// conversations view has content.
func (s *Seeder) Run(opts Options) error {
	if opts.NumUsers < 2 {
		opts.NumUsers = 2
	}
	if opts.NumItems <= 0 {
		opts.NumItems = opts.NumUsers * 3
	}

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("seeding user: %w", err)
		}
		users = append(users, user)
	}

	items := make([]*models.LostItem, 0, opts.NumItems)
	for i := 0; i < opts.NumItems; i++ {
		owner := users[s.factory.rng.Intn(len(users))]
		item, err := s.factory.CreateLostItem(owner)
		if err != nil {
			return fmt.Errorf("seeding item: %w", err)
		}
		items = append(items, item)
	}

	messages := 0
	for _, item := range items {
		// Roughly half the reports get an inquiry thread.
		if s.factory.rng.Intn(2) == 0 {
			continue
		}
		finder := users[s.factory.rng.Intn(len(users))]
		if finder.ID == item.UserID {
			continue
		}
		owner := &models.User{ID: item.UserID}
		if _, err := s.factory.CreateMessage(finder, owner, item); err != nil {
			return fmt.Errorf("seeding message: %w", err)
		}
		messages++
		if _, err := s.factory.CreateMessage(owner, finder, item); err != nil {
			return fmt.Errorf("seeding reply: %w", err)
		}
		messages++
	}

	log.Printf("Seeded %d users, %d items, %d messages", len(users), len(items), messages)
	return nil
}
