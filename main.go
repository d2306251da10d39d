package main

import (
	"fmt"
	"time"

	"hvacdesk-backend/config"
	"hvacdesk-backend/database"
	"hvacdesk-backend/logger"
	"hvacdesk-backend/middlewares"
	"hvacdesk-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.Environment)

	// ---- Database
	if err := database.Connect(cfg.DB); err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("database migrate failed")
	}

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    cfg.HTTP.BodyLimitBytes,
	})

	// ---- CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.AllowedOrigins,
		AllowCredentials: false, // using Bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))

	// ---- Global rate limiter
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.HTTP.RateLimitMax,
		Expiration: time.Duration(cfg.HTTP.RateLimitWinS) * time.Second,
		// Default KeyGenerator = client IP; default 429 handler is fine.
	}))

	// ---- Routes
	routes.Register(app)

	// ---- Start
	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("API server starting")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
