package server

import (
	"testing"

	"github.com/BarishY/Astroverse/internal/config"
	"github.com/BarishY/Astroverse/internal/database"
	"github.com/BarishY/Astroverse/internal/featureflags"
	"github.com/BarishY/Astroverse/internal/models"
	"github.com/BarishY/Astroverse/internal/notifications"
	"github.com/BarishY/Astroverse/internal/repository"
	"github.com/BarishY/Astroverse/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
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

// newTestServer wires a Server against in-memory sqlite without Redis.
// The Prometheus request middleware stays nil so repeated test setups do
// not re-register collectors.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	db := setupHandlerTestDB(t)

	s := &Server{
		config: &config.Config{
			JWTSecret: "test-secret-test-secret-test-sec",
			Env:       "test",
		},
		db:              db,
		userRepo:        repository.NewUserRepository(db),
		followRepo:      repository.NewFollowRepository(db),
		collectionRepo:  repository.NewCollectionRepository(db),
		interactionRepo: repository.NewCollectionInteractionRepository(db),
		apodRepo:        repository.NewApodInteractionRepository(db),
		messageRepo:     repository.NewMessageRepository(db),
		notifier:        notifications.NewNotifier(nil),
		hub:             notifications.NewHub(),
		featureFlags:    featureflags.NewManager(""),
	}

	s.accessService = service.NewAccessService(s.followRepo)
	s.collectionService = service.NewCollectionService(
		s.collectionRepo, s.apodRepo, s.accessService, nil)
	s.interactionService = service.NewInteractionService(
		s.collectionRepo, s.interactionRepo, s.apodRepo, s.accessService, s.notifier)
	s.feedService = service.NewFeedService(s.collectionRepo, s.followRepo)
	s.socialService = service.NewSocialService(s.userRepo, s.followRepo)
	s.messageService = service.NewMessageService(s.messageRepo, s.userRepo, s.notifier)
	s.userService = service.NewUserService(s.userRepo)

	return s
}

func createHandlerTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// newAuthedApp builds a fiber app that injects the given user ID into
// locals, standing in for the auth middleware.
func newAuthedApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("userID", userID)
		}
		return c.Next()
	})
	return app
}
