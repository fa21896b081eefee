package seed

import (
	"testing"

	"github.com/BarishY/Astroverse/internal/database"
	"github.com/BarishY/Astroverse/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
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

func TestSeed_PopulatesAllTables(t *testing.T) {
	db := setupSeedTestDB(t)

	err := Seed(db, Options{NumUsers: 8, NumCollections: 6, MaxDays: 30, SkipBcrypt: true})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}

	counts := map[string]any{
		"users":       &models.User{},
		"follows":     &models.Follow{},
		"apod posts":  &models.ApodPost{},
		"collections": &models.Collection{},
		"items":       &models.CollectionItem{},
	}
	for name, model := range counts {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		if n == 0 {
			t.Errorf("expected seeded %s, got 0", name)
		}
	}

	// The fixed demo accounts come first.
	var user models.User
	if err := db.First(&user, "username = ?", "barish").Error; err != nil {
		t.Fatalf("demo user missing: %v", err)
	}
}

func TestSeed_CleanRemovesPreviousRun(t *testing.T) {
	db := setupSeedTestDB(t)

	if err := Seed(db, Options{NumUsers: 4, NumCollections: 3, SkipBcrypt: true}); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db, Options{NumUsers: 4, NumCollections: 3, SkipBcrypt: true, ShouldClean: true}); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var n int64
	if err := db.Model(&models.User{}).Count(&n).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected clean re-seed to leave 4 users, got %d", n)
	}
}

func TestFactory_EnsureApodPostIsIdempotent(t *testing.T) {
	db := setupSeedTestDB(t)
	f := NewFactory(db, Options{})

	first, err := f.EnsureApodPost("2024-03-15")
	if err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	second, err := f.EnsureApodPost("2024-03-15")
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if first.Title != second.Title {
		t.Fatalf("expected the existing snapshot back, got %q then %q", first.Title, second.Title)
	}

	var n int64
	db.Model(&models.ApodPost{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected a single anchor row, got %d", n)
	}
}

func TestFactory_AddItemSetsCover(t *testing.T) {
	db := setupSeedTestDB(t)
	f := NewFactory(db, Options{SkipBcrypt: true})

	owner, err := f.CreateUser()
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	collection, err := f.CreateCollection(owner, func(c *models.Collection) {
		c.Privacy = models.CollectionPrivacyPublic
	})
	if err != nil {
		t.Fatalf("create collection: %v", err)
	}
	post, err := f.EnsureApodPost("2024-03-15")
	if err != nil {
		t.Fatalf("ensure post: %v", err)
	}
	if _, err := f.AddItem(collection, post); err != nil {
		t.Fatalf("add item: %v", err)
	}

	var reloaded models.Collection
	if err := db.First(&reloaded, collection.ID).Error; err != nil {
		t.Fatalf("reload collection: %v", err)
	}
	if reloaded.CoverImage != post.URL {
		t.Fatalf("expected cover %q, got %q", post.URL, reloaded.CoverImage)
	}
}
