package Models

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the users database and runs migrations. The journal itself
// lives in its own file store; this database only holds accounts.
func Connect() {
	dbPath := os.Getenv("USERS_DB")
	if dbPath == "" {
		dbPath = "users.db"
	}

	connection, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error opening users database %s: %v", dbPath, err)
	}
	DB = connection

	if err := DB.AutoMigrate(&User{}); err != nil {
		log.Println(err)
	}

	seedAdmin()
}

// seedAdmin creates the initial admin account on a fresh database so the API
// is reachable before any users exist.
func seedAdmin() {
	var count int64
	DB.Model(&User{}).Count(&count)
	if count > 0 {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin"
		log.Println("ADMIN_PASSWORD not set, seeding admin with default password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing admin password: %v", err)
		return
	}

	admin := User{
		Name:       "admin",
		Email:      "admin",
		Password:   hash,
		Permission: 4,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Error seeding admin user: %v", err)
	}
}
