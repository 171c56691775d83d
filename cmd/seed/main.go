// Command main runs the database seeder for demo environments.
package main

import (
	"flag"
	"log"

	"foundling/internal/config"
	"foundling/internal/database"
	"foundling/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numItems := flag.Int("items", 60, "Number of lost item reports to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d items, clean=%v\n", *numUsers, *numItems, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if err := s.Run(seed.Options{
		NumUsers:    *numUsers,
		NumItems:    *numItems,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
