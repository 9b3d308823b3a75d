package main

import (
	"log"
	"os"

	"github.com/RakhimovY/AIChat/internal/model"
	"github.com/RakhimovY/AIChat/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the initial admin account used for law library management.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("Error: ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	var existing model.User
	res := db.Where("email = ?", email).First(&existing)
	if res.Error == nil {
		log.Printf("Admin %s already exists, nothing to do", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error: Failed to hash password: %v", err)
	}
	hashStr := string(hash)

	admin := model.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: &hashStr,
		Name:         "Administrator",
		Role:         "ADMIN",
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Error: Failed to create admin: %v", err)
	}

	log.Printf("✅ Admin account created: %s", email)
}
