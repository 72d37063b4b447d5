package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"eventhub/internal/database"
	"eventhub/internal/domain"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "eventhub.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.RefreshToken{},
		&domain.BlacklistedToken{},
		&domain.EmailConfirmationCode{},
		&domain.Event{},
		&domain.EventRegistration{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM event_registrations")
	db.Exec("DELETE FROM events")
	db.Exec("DELETE FROM email_confirmation_codes")
	db.Exec("DELETE FROM blacklisted_tokens")
	db.Exec("DELETE FROM refresh_tokens")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("adminpassword"), bcrypt.DefaultCost)
	admin := domain.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		IsConfirmed:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("create admin failed:", err)
	}

	testHash, _ := bcrypt.GenerateFromPassword([]byte("testpassword"), bcrypt.DefaultCost)
	testUser := domain.User{
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: string(testHash),
		Role:         domain.RoleUser,
		IsConfirmed:  true,
	}
	if err := db.Create(&testUser).Error; err != nil {
		log.Fatal("create test user failed:", err)
	}

	log.Println("Creating events...")

	now := time.Now().UTC()
	events := []domain.Event{
		{
			Title:           "Vaibaton Hackathon",
			Description:     "A weekend hackathon with prizes and a chance to show off",
			StartTime:       now.Add(2 * time.Hour),
			EndTime:         now.Add(48 * time.Hour),
			MaxParticipants: 100,
			IsActive:        true,
		},
		{
			Title:           "Backend API Workshop",
			Description:     "Hands-on session on designing and building web APIs",
			StartTime:       now.Add(24 * time.Hour),
			EndTime:         now.Add(27 * time.Hour),
			MaxParticipants: 30,
			IsActive:        true,
		},
		{
			Title:           "Docker Workshop",
			Description:     "Containers from zero to a deployed service",
			StartTime:       now.Add(72 * time.Hour),
			EndTime:         now.Add(76 * time.Hour),
			MaxParticipants: 25,
			IsActive:        true,
		},
	}
	for i := range events {
		if err := db.Create(&events[i]).Error; err != nil {
			log.Fatal("create event failed:", err)
		}
	}

	log.Printf("Seed completed: users=2 events=%d", len(events))
	log.Println("admin@example.com / adminpassword, test@example.com / testpassword")
}
