package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"tablecompare/core/config"
	"tablecompare/core/database"
	"tablecompare/core/loader"
	"tablecompare/core/logger"
	"tablecompare/core/middleware/auth"
	"tablecompare/core/middleware/rayid"
	"tablecompare/core/notify"
	"tablecompare/core/source"
	"tablecompare/core/storage"

	"tablecompare/feature/compare"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "tablecompare/docs/swagger"
)

// @title Table Compare API
// @version 1.0
// @description Reconciles two tabular sources and reports matches, mismatches and missing rows.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the comparison API server",
	Long:  `Starts the HTTP server exposing POST /compare and the Swagger documentation.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if err := cfg.Server.Validate(); err != nil {
			log.Fatalf("Invalid server configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Optional)
		// Query sources share the pool; without it only files and objects can be compared.
		var connect source.ConnectFunc
		if db, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			defer database.Close(db)
			connect = source.Shared(db)
			logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
		}

		// 4. Initialize Storage
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			BodyLimit:             cfg.Server.BodyLimitKB * 1024,
		})

		// 5. Initialize Feature Loader
		svc := compare.NewService(cfg.Compare, store, connect, notify.NewMailer(cfg.Mail), logg).
			WithTrusted(cfg.Server.AllowLocalSources)

		mgr := loader.NewManager()
		mgr.Register(compare.NewFeature(svc))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Request logging with the ray id
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

		// 3. Auth (Protect API, documentation stays public)
		if cfg.Server.ApiKey == "" {
			logg.Warn("No API key configured, the API is unauthenticated")
		}
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{"/swagger/"}}))

		// 4. Swagger Documentation
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 6. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
