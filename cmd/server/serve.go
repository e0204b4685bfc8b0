package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillbook/internal/adapters/http/handlers"
	"skillbook/internal/adapters/http/middleware"
	"skillbook/internal/adapters/http/routes"
	"skillbook/internal/adapters/mq"
	"skillbook/internal/adapters/session"
	"skillbook/internal/adapters/storage"
	"skillbook/internal/config"
	"skillbook/internal/core/authz"
	"skillbook/internal/core/services"
	"skillbook/internal/pkg/jwt"
	"skillbook/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	store, err := openPersistence(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	hasher := password.NewBcryptHasher(cfg.Security.BcryptCost)
	tokens, err := jwt.NewService(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenMins)*time.Minute)
	if err != nil {
		return err
	}

	// Seed the admin account when one is configured
	if cfg.Admin.Username != "" {
		if _, err := config.NewSeeder(store.users, hasher, cfg.Admin).SeedAdminUser(ctx); err != nil {
			log.Printf("⚠️ Warning: Failed to seed admin user: %v", err)
		}
	}

	var checks []handlers.HealthCheck
	if store.db != nil {
		checks = append(checks, handlers.HealthCheck{
			Name:  "database",
			Check: func(ctx context.Context) error { return config.PingDatabase(ctx, store.db) },
		})
	}

	// Sessions
	var sessions services.SessionStore
	switch {
	case cfg.SessionsEnabled():
		rdb, err := session.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rdb.Close()

		redisStore := session.NewRedisStore(rdb)
		sessions = redisStore
		checks = append(checks, handlers.HealthCheck{Name: "redis", Check: redisStore.Ping})
	case cfg.Database.Driver == "memory":
		sessions = session.NewMemoryStore()
	default:
		log.Println("⚠️ REDIS_ADDR not set, login issues tokens only")
	}

	// Photos
	var photos services.PhotoStore
	if cfg.MinIO.Endpoint != "" {
		minioStore, err := storage.NewMinioStore(cfg.MinIO)
		if err != nil {
			return err
		}
		if err := minioStore.EnsureBucket(ctx); err != nil {
			return err
		}
		photos = minioStore
		log.Printf("✅ Profile photos stored in MinIO bucket %s", minioStore.Bucket())
	} else {
		photos = storage.NewDBStore(store.photos)
		log.Println("ℹ️ MINIO_ENDPOINT not set, profile photos stored in the database")
	}

	// Events
	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := mq.NewRabbitMQPublisher(cfg.RabbitMQ)
		if err != nil {
			return err
		}
		publisher = rabbit
	} else {
		publisher = mq.NewLogPublisher(log.Default())
	}
	defer publisher.Close()
	notifier := services.NewNotificationService(publisher)

	// Start course reminders
	if cfg.Reminder.Enabled {
		reminders, err := services.NewReminderService(store.courses, store.enrollments, notifier,
			cfg.Reminder.Spec, time.Duration(cfg.Reminder.Window)*time.Hour)
		if err != nil {
			return err
		}
		reminders.Start()
		defer reminders.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Skillbook API",
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    services.MaxPhotoBytes + 1<<20,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	if err := routes.Setup(app, cfg, routes.Dependencies{
		Users:        store.users,
		Courses:      store.courses,
		Enrollments:  store.enrollments,
		Hasher:       hasher,
		Tokens:       tokens,
		Policy:       authz.NewPolicy(cfg.Security.Profile),
		Sessions:     sessions,
		Photos:       photos,
		Notifier:     notifier,
		HealthChecks: checks,
		AuthLimiter:  middleware.AuthRateLimiter(),
	}); err != nil {
		return err
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		log.Println("🛑 Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("❌ Error during shutdown: %v", err)
		}
	}()

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	log.Println("✅ Server stopped gracefully")
	return nil
}
