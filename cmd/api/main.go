package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ndc-explorer/backend/internal/api/handlers"
	"github.com/ndc-explorer/backend/internal/cache/redis"
	"github.com/ndc-explorer/backend/internal/metrics"
	"github.com/ndc-explorer/backend/internal/middleware/ratelimit"
	"github.com/ndc-explorer/backend/internal/middleware/security"
	"github.com/ndc-explorer/backend/internal/middleware/validation"
	"github.com/ndc-explorer/backend/internal/pages"
	"github.com/ndc-explorer/backend/internal/storage/postgres"
	"github.com/ndc-explorer/backend/pkg/config"
	appLogger "github.com/ndc-explorer/backend/pkg/logger"
	"github.com/ndc-explorer/backend/pkg/retry"
)

func main() {
	// A local .env is a convenience for development; absence is fine.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting NDC Explorer API Server")

	metrics.Init()

	store, err := postgres.NewClient(cfg.Database.URL, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		appLogger.Fatal("Failed to create postgres client", zap.Error(err))
	}
	defer store.Close()

	// Only the startup ping retries; individual catalog queries never do.
	connectCfg := retry.DefaultConfig()
	connectCfg.MaxAttempts = cfg.Database.ConnectAttempts
	connectCfg.Logger = appLogger.Log
	err = retry.Do(context.Background(), connectCfg, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return store.Ping(ctx)
	})
	if err != nil {
		appLogger.Fatal("Failed to reach database", zap.Error(err))
	}

	var viewCache pages.ViewCache
	if cfg.Cache.Enabled {
		redisCache, err := redis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		)
		if err != nil {
			appLogger.Fatal("Failed to create redis view cache", zap.Error(err))
		}
		defer redisCache.Close()
		viewCache = redisCache
	}

	pageService := pages.NewService(store, viewCache)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))
	app.Use(validation.Middleware(validation.Config{
		MaxTermLength: cfg.Search.MaxTermLength,
		Logger:        appLogger.Log,
	}))

	if cfg.RateLimit.Enabled {
		limiter := ratelimit.New(ratelimit.Config{
			MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
			Logger:               appLogger.Log,
		})
		defer limiter.Stop()
		app.Use(limiter.Middleware())
	}

	countriesHandler := handlers.NewCountriesHandler(pageService)
	questionsHandler := handlers.NewQuestionsHandler(pageService)
	searchHandler := handlers.NewSearchHandler(pageService)
	statsHandler := handlers.NewStatsHandler(pageService)

	api := app.Group("/api/v1")

	api.Get("/countries", countriesHandler.ListCountries)
	api.Get("/countries/:countryId", countriesHandler.GetCountry)
	api.Get("/questions", questionsHandler.ListQuestions)
	api.Get("/questions/:questionId", questionsHandler.GetQuestion)
	api.Get("/search", searchHandler.Search)
	api.Get("/stats", statsHandler.GetStats)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
			})
		}
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
