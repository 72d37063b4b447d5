package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"eventhub/internal/database"
	"eventhub/internal/repository"
)

// Purges expired refresh tokens, expired blacklist entries and dead email
// confirmation codes. Meant for a cron job; the request path never deletes.
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx := context.Background()

	refreshDeleted, err := repository.NewRefreshTokenRepository(db).DeleteExpired(ctx)
	if err != nil {
		log.Fatalf("cleanup refresh_tokens failed: %v", err)
	}

	blacklistDeleted, err := repository.NewBlacklistedTokenRepository(db).DeleteExpired(ctx)
	if err != nil {
		log.Fatalf("cleanup blacklisted_tokens failed: %v", err)
	}

	codesDeleted, err := repository.NewConfirmationCodeRepository(db).DeleteDead(ctx)
	if err != nil {
		log.Fatalf("cleanup email_confirmation_codes failed: %v", err)
	}

	log.Printf("auth cleanup completed: refresh_tokens=%d blacklisted_tokens=%d email_confirmation_codes=%d",
		refreshDeleted, blacklistDeleted, codesDeleted)
}
