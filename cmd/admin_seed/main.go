// Seeds the admin account used for top-up confirmation and payout
// processing.
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"nocage/internal/config"
	"nocage/internal/models"
	"nocage/internal/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminName := config.GetEnv("ADMIN_NAME", "NoCage Admin")

	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	db, err := repositories.InitDB(repositories.DefaultDBConfig())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	userRepo := repositories.NewUserRepository(db)
	admin := &models.User{
		Email:    adminEmail,
		Password: string(hashed),
		Name:     adminName,
		Role:     models.RoleAdmin,
	}
	if err := userRepo.Create(context.Background(), admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Printf("Admin user %s already exists, nothing to do", adminEmail)
			return
		}
		log.Fatalf("Failed to create admin user: %v", err)
	}

	log.Printf("Created admin user %s (id=%d)", adminEmail, admin.ID)
}
