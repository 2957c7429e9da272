// Command createadmin provisions an administrator account. Admins never
// self-register; this is the only way one is created. Safe to re-run: an
// existing username is reported, not overwritten.
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/voyage/server/internal/auth"
	"github.com/voyage/server/internal/config"
	"github.com/voyage/server/internal/db"
	"github.com/voyage/server/internal/repo"
)

func main() {
	_ = godotenv.Load(".env")

	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		log.Fatal("ADMIN_USERNAME and ADMIN_PASSWORD environment variables are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admins := repo.NewAdminRepo(database)
	admin, err := admins.Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			log.Printf("Admin %q already exists, nothing to do", username)
			return
		}
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Admin %q created (id=%s)", admin.Username, admin.ID)
}
