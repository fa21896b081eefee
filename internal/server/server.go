// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/BarishY/Astroverse/internal/apod"
	"github.com/BarishY/Astroverse/internal/cache"
	"github.com/BarishY/Astroverse/internal/config"
	"github.com/BarishY/Astroverse/internal/database"
	"github.com/BarishY/Astroverse/internal/featureflags"
	"github.com/BarishY/Astroverse/internal/middleware"
	"github.com/BarishY/Astroverse/internal/models"
	"github.com/BarishY/Astroverse/internal/notifications"
	"github.com/BarishY/Astroverse/internal/repository"
	"github.com/BarishY/Astroverse/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo        repository.UserRepository
	followRepo      repository.FollowRepository
	collectionRepo  repository.CollectionRepository
	interactionRepo repository.CollectionInteractionRepository
	apodRepo        repository.ApodInteractionRepository
	messageRepo     repository.MessageRepository

	apodClient   *apod.Client
	notifier     *notifications.Notifier
	hub          *notifications.Hub
	featureFlags *featureflags.Manager

	accessService      *service.AccessService
	collectionService  *service.CollectionService
	interactionService *service.InteractionService
	feedService        *service.FeedService
	socialService      *service.SocialService
	messageService     *service.MessageService
	userService        *service.UserService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	server := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		promMiddleware:  middleware.InitMetrics("astroverse-api"),
		userRepo:        repository.NewUserRepository(db),
		followRepo:      repository.NewFollowRepository(db),
		collectionRepo:  repository.NewCollectionRepository(db),
		interactionRepo: repository.NewCollectionInteractionRepository(db),
		apodRepo:        repository.NewApodInteractionRepository(db),
		messageRepo:     repository.NewMessageRepository(db),
		apodClient:      apod.NewClient(cfg),
		featureFlags:    featureflags.NewManager(cfg.FeatureFlags),
	}

	// The notifier is nil-safe: without Redis every publish is a no-op
	// and the app runs single-instance without realtime fan-in.
	server.notifier = notifications.NewNotifier(redisClient)
	server.hub = notifications.NewHub()

	server.accessService = service.NewAccessService(server.followRepo)
	server.collectionService = service.NewCollectionService(
		server.collectionRepo, server.apodRepo, server.accessService, server.apodClient)
	server.interactionService = service.NewInteractionService(
		server.collectionRepo, server.interactionRepo, server.apodRepo,
		server.accessService, server.notifier)
	server.feedService = service.NewFeedService(server.collectionRepo, server.followRepo)
	server.socialService = service.NewSocialService(server.userRepo, server.followRepo)
	server.messageService = service.NewMessageService(server.messageRepo, server.userRepo, server.notifier)
	server.userService = service.NewUserService(server.userRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// OpenTelemetry spans, only when an exporter is configured
	if s.config.OTLPEndpoint != "" {
		app.Use(middleware.TracingMiddleware())
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.RequestLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Astroverse Backend Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// APOD browsing (public, personalized when a token is present)
	apodGroup := api.Group("/apod", middleware.OptionalAuth)
	apodGroup.Get("/today", s.GetApodToday)
	apodGroup.Get("/recent", s.GetApodRecent)
	apodGroup.Get("/range", s.GetApodRange)
	apodGroup.Get("/:date/interactions", s.GetApodPostInteractions)
	apodGroup.Get("/:date/comments", s.GetApodPostComments)
	apodGroup.Get("/:date", s.GetApodByDate)

	// Public user and collection browsing
	publicUsers := api.Group("/users", middleware.OptionalAuth)
	publicUsers.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "user_search"), s.SearchUsers)
	publicUsers.Get("/:id/collections", s.GetUserCollections)
	publicUsers.Get("/:id/followers", s.GetFollowers)
	publicUsers.Get("/:id/following", s.GetFollowing)

	publicCollections := api.Group("/collections", middleware.OptionalAuth)
	publicCollections.Get("/:id/items", s.GetCollectionItems)
	publicCollections.Get("/:id/interactions", s.GetCollectionInteractions)
	publicCollections.Get("/:id/comments", s.GetCollectionComments)
	publicCollections.Get("/:id", s.GetCollection)

	// Feeds
	feed := api.Group("/feed", middleware.OptionalAuth)
	feed.Get("/recent", s.GetRecentFeed)
	feed.Get("/popular", s.GetPopularFeed)
	api.Get("/feed/following", middleware.AuthRequired, s.GetFollowingFeed)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// Profile routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Put("/me/password", s.ChangePassword)
	users.Get("/me/mutuals", s.GetMutuals)
	users.Post("/:id/follow", middleware.RateLimit(
		s.redis, 30, time.Minute, "follow"), s.FollowUser)
	users.Delete("/:id/follow", s.UnfollowUser)
	users.Get("/:id/follow", s.GetFollowStatus)

	// Profile lookup by username stays public but registers after the
	// protected /me routes so "me" never resolves as a username.
	api.Get("/users/:username", middleware.OptionalAuth, s.GetUserProfile)

	// Collection management
	collections := protected.Group("/collections")
	collections.Post("/", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_collection"), s.CreateCollection)
	collections.Put("/reorder", s.ReorderCollections)
	collections.Post("/:id/items", s.ToggleCollectionItem)
	collections.Post("/:id/like", s.ToggleCollectionLike)
	collections.Post("/:id/comments", middleware.RateLimit(
		s.redis, 15, time.Minute, "create_comment"), s.CommentOnCollection)
	collections.Delete("/comments/:commentId", s.DeleteCollectionComment)
	collections.Post("/comments/:commentId/like", s.ToggleCommentLike)
	collections.Put("/:id", s.UpdateCollection)
	collections.Delete("/:id", s.DeleteCollection)

	// APOD post interactions
	apodProtected := protected.Group("/apod")
	apodProtected.Post("/:date/like", s.ToggleApodPostLike)
	apodProtected.Post("/:date/comments", middleware.RateLimit(
		s.redis, 15, time.Minute, "create_comment"), s.CommentOnApodPost)
	apodProtected.Delete("/comments/:commentId", s.DeleteApodPostComment)
	apodProtected.Get("/:date/saved-in", s.GetSavedInCollections)

	// Direct messages
	messages := protected.Group("/messages")
	messages.Post("/", middleware.RateLimit(
		s.redis, 30, time.Minute, "send_message"), s.SendMessage)
	messages.Get("/conversations", s.GetConversations)
	messages.Post("/:userId/seen", s.MarkConversationSeen)
	messages.Get("/:userId", s.GetMessageHistory)

	// Feature flag snapshot for the signed-in user
	protected.Get("/feature-flags", s.GetFeatureFlags)

	// WebSocket endpoint - token via Authorization header or ?token=
	api.Get("/ws", s.wsAuth, s.WebSocketHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The app runs without Redis, with caching, leaderboard and
		// realtime fan-in degraded.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "Astroverse API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	if s.redis != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				log.Printf("failed to start %s wiring: %v", s.hub.Name(), err)
			}
		}()
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the wiring goroutine
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	// Shutdown the HTTP/WS server
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Close WebSocket connections gracefully
	if err := s.hub.Shutdown(ctx); err != nil {
		log.Printf("error shutting down %s: %v", s.hub.Name(), err)
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
