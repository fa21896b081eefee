package repository

import (
	"testing"

	"github.com/BarishY/Astroverse/internal/database"
	"github.com/BarishY/Astroverse/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupRepoTestDB opens a fresh in-memory sqlite database with the full
// schema. Each test gets its own database, so tests can run in parallel.
func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.Models()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed-pw",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createTestCollection(t *testing.T, db *gorm.DB, ownerID uint, name string, privacy models.CollectionPrivacy) *models.Collection {
	t.Helper()
	collection := &models.Collection{OwnerID: ownerID, Name: name, Privacy: privacy}
	if err := db.Create(collection).Error; err != nil {
		t.Fatalf("create collection %s: %v", name, err)
	}
	return collection
}
