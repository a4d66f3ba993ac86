package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"healthpulse/config"
	"healthpulse/controllers"
	"healthpulse/logger"
	"healthpulse/routes"
	"healthpulse/storage"
	"healthpulse/survey"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	store, err := storage.Open(context.Background(), cfg.Store, zlog)
	if err != nil {
		zlog.Fatal("store open failed", zap.Error(err))
	}
	defer store.Close(context.Background())

	svc := survey.New(store, zlog)
	h := controllers.New(svc, zlog)

	app := fiber.New()
	app.Use(recover.New())

	// Log concise request lines
	app.Use(fiberlogger.New(fiberlogger.Config{
		TimeFormat: "15:04:05",
	}))

	// CORS (dev-friendly)
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:3001, http://localhost:3002",
		AllowMethods:     "GET,POST,PUT,OPTIONS",
		AllowHeaders:     "*",
		AllowCredentials: false,
		MaxAge:           int((12 * time.Hour).Seconds()),
	}))

	// Health
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := store.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("store unreachable")
		}
		return c.SendString("ok")
	})

	// API
	routes.Register(app, h)

	zlog.Info("API listening", zap.String("addr", cfg.Addr))
	if err := app.Listen(cfg.Addr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
