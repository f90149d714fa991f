package main

import (
	"flag"
	"log"

	"github.com/pantrysnap/backend/config"
	"github.com/pantrysnap/backend/internal/database"
)

func main() {
	migrationsDir := flag.String("dir", "migrations", "Directory containing migration files")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, *migrationsDir); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations applied")
}
