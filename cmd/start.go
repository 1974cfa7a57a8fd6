package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"content-sync/core/config"
	"content-sync/core/database"
	"content-sync/core/loader"
	"content-sync/core/logger"
	"content-sync/core/middleware/rayid"
	"content-sync/core/storage"
	"content-sync/feature/syncer"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "content-sync/docs/swagger"
)

// @title Content Sync API
// @version 1.0
// @description Receiving end of content synchronization between two instances.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sync receiver",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if !cfg.Server.HasSyncKey() {
			logg.Warn("No sync key configured; all mutating sync calls will be rejected")
		}

		// 3. Connect to the content database. Unlike storage, there is
		// nothing to receive into without it.
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to content database", zap.Error(err))
		}
		logg.Info("Connected to content database")

		// 4. Initialize Storage
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}
		ensureCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := storage.EnsureBucket(ensureCtx, store, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			cancel()
			logg.Fatal("Failed to ensure media bucket", zap.Error(err))
		}
		cancel()

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(syncer.NewFeature(db, store, cfg.Storage.Bucket, cfg.Storage.BaseURL(), cfg.Sync, cfg.Server.SyncKey, logg))

		// Middleware Registration
		// RayID must be first to trace everything.
		app.Use(rayid.New())

		// Request logging with Zap + RayID.
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 7. Load Features. Mutating sync routes carry their own auth
		// guard; the status route must stay reachable without a key.
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
