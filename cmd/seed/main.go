// seed inserts a verified development account for local testing.
// Idempotent: skips the insert if dev@example.com already exists.
package main

import (
	"context"
	"fmt"
	"log"

	"copilot-auth/internal/account/repository"
	"copilot-auth/internal/config"
	"copilot-auth/internal/db"
	"copilot-auth/internal/security"
)

const (
	devEmail    = "dev@example.com"
	devPassword = "Passw0rd!dev"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	repo := repository.NewPostgresRepository(conn)
	ctx := context.Background()

	existing, err := repo.GetByEmail(ctx, devEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (dev@example.com exists). Skipping.")
		return
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	if _, err := repo.Create(ctx, devEmail, passwordHash); err != nil {
		log.Fatalf("create dev account: %v", err)
	}
	if _, err := repo.SetVerified(ctx, devEmail); err != nil {
		log.Fatalf("verify dev account: %v", err)
	}

	log.Println("Seed completed successfully.")
	fmt.Printf("Dev login: %s / %s\n", devEmail, devPassword)
}
