// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (dev@example.com) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"authcore/internal/config"
	"authcore/internal/db"
	"authcore/internal/security"
	userdomain "authcore/internal/user/domain"
	userrepo "authcore/internal/user/repository"
)

const (
	devEmail    = "dev@example.com"
	devPassword = "devpassword123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
		os.Exit(1)
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)

	existing, err := users.GetByEmail(ctx, devEmail)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	if existing != nil {
		log.Printf("seed: dev user %s already exists, nothing to do", devEmail)
		return
	}

	email, err := userdomain.NewEmail(devEmail)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	hash, err := security.NewHasher(cfg.BcryptCost).Hash(devPassword)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	user, err := userdomain.New(email, hash, "Dev User")
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("seed: created dev user %s (password %s)", devEmail, devPassword)
}
