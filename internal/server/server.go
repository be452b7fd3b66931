// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"log"
	"time"

	"mural/internal/bootstrap"
	"mural/internal/config"
	"mural/internal/featureflags"
	"mural/internal/middleware"
	"mural/internal/models"
	"mural/internal/repository"
	"mural/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
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
	flags          *featureflags.Manager

	userRepo       repository.UserRepository
	itemRepo       repository.ItemRepository
	commentRepo    repository.CommentRepository
	engagementRepo repository.EngagementRepository

	itemService       *service.ItemService
	engagementService *service.EngagementService
	commentService    *service.CommentService
	moderationService *service.ModerationService
	userService       *service.UserService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		return nil, err
	}

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with an in-memory database and an optional Redis client.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("mural-api"),
		flags:          featureflags.NewManager(cfg.FeatureFlags),
		userRepo:       repository.NewUserRepository(db),
		itemRepo:       repository.NewItemRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		engagementRepo: repository.NewEngagementRepository(db),
	}

	server.itemService = service.NewItemService(server.itemRepo, server.isModeratorByUserID)
	server.engagementService = service.NewEngagementService(server.engagementRepo, server.itemRepo)
	server.commentService = service.NewCommentService(server.commentRepo, server.itemRepo, server.isModeratorByUserID)
	server.moderationService = service.NewModerationService(server.itemRepo, server.isModeratorByUserID)
	server.userService = service.NewUserService(server.userRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Prometheus metrics
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// OpenTelemetry tracing (after requestid so request IDs land on spans)
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Structured logging middleware
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Mural Backend Metrics Dashboard",
	}))

	// Evaluated feature flags for the requesting user, so clients can hide
	// frozen actions instead of surfacing 503s.
	api.Get("/flags", middleware.OptionalAuth, s.GetFeatureFlags)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", s.Signup)
	auth.Post("/login", s.Login)
	auth.Post("/forgot-password", s.ForgotPassword)
	auth.Post("/reset-password", s.ResetPassword)

	// Public item routes. OptionalAuth lets responses carry the requester's
	// liked/favorited state without requiring a login.
	publicItems := api.Group("/items", middleware.OptionalAuth)
	publicItems.Get("/", s.GetItems)
	// Specific routes before generic /:id
	publicItems.Get("/pending", s.AuthRequired(), s.ModeratorRequired(), s.GetPendingItems)
	publicItems.Get("/:id/comments", s.GetComments)
	publicItems.Get("/:id", s.GetItem)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	items := protected.Group("/items")
	items.Post("/", s.CreateItem)
	// Engagement state reads stay available while the write gate is closed.
	items.Get("/:id/like", s.GetLikeState)
	items.Get("/:id/favorite", s.GetFavoriteState)
	// Engagement toggles
	engagement := items.Group("", s.WriteGate("freeze_engagement"))
	engagement.Post("/:id/like", s.LikeItem)
	engagement.Delete("/:id/like", s.UnlikeItem)
	engagement.Post("/:id/favorite", s.FavoriteItem)
	engagement.Delete("/:id/favorite", s.UnfavoriteItem)
	// Comments
	comments := items.Group("", s.WriteGate("freeze_comments"))
	comments.Post("/:id/comments", s.CreateComment)
	comments.Put("/:id/comments/:commentId", s.UpdateComment)
	comments.Delete("/:id/comments/:commentId", s.DeleteComment)
	// Moderation decision
	items.Post("/:id/decision", s.ModeratorRequired(), s.DecideItem)
	// Generic /:id routes last
	items.Put("/:id", s.UpdateItem)
	items.Delete("/:id", s.DeleteItem)

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Post("/me/password", s.ChangeMyPassword)
	users.Get("/me/favorites", s.GetMyFavorites)
	users.Post("/:id/promote-moderator", s.ModeratorRequired(), s.PromoteToModerator)
	users.Post("/:id/demote-moderator", s.ModeratorRequired(), s.DemoteFromModerator)
	users.Get("/:id/items", s.GetUserItems)
	users.Get("/:id/comments", s.GetUserComments)
	users.Get("/:id", s.GetUserProfile)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
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
		// Caching degrades gracefully without Redis; report but stay ready.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return middleware.AuthRequired
}

// ModeratorRequired returns middleware that rejects non-moderators with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) ModeratorRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userID").(uint)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		mod, err := s.isModeratorByUserID(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !mod {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewUnauthorizedError("Moderator access required"))
		}

		return c.Next()
	}
}

// GetFeatureFlags handles GET /api/flags
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(s.flags.Snapshot(currentUserID(c)))
}

// WriteGate returns middleware that answers 503 while the named kill-switch
// flag is enabled for the requesting user. Used to freeze abuse-prone write
// paths without a deploy.
func (s *Server) WriteGate(flag string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if s.flags.Enabled(flag, currentUserID(c)) {
			return models.RespondWithError(c, fiber.StatusServiceUnavailable,
				models.NewValidationError("This action is temporarily disabled"))
		}
		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Mural API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("error closing Redis client: %v", err)
		}
	}

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("error closing database connection: %v", err)
			}
		}
	}

	return nil
}
