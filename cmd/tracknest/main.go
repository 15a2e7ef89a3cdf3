package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/JonasWeber/TrackNest/internal/pkg/cache"
	"github.com/JonasWeber/TrackNest/internal/pkg/database"
	"github.com/JonasWeber/TrackNest/internal/pkg/env"
	"github.com/JonasWeber/TrackNest/internal/pkg/payment"
	"github.com/JonasWeber/TrackNest/internal/pkg/router"
	"github.com/JonasWeber/TrackNest/internal/pkg/sweeper"
)

func main() {
	app := NewApplication()

	// Background reconciliation sweep converges windows left stale by the
	// lock-free ingestion path.
	sweepInterval := time.Duration(env.GetEnvInt("RECONCILE_SWEEP_MINUTES", 15)) * time.Minute
	go sweeper.Run(context.Background(), payment.NewServiceFromDB(database.GetDB()), sweepInterval)

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	app := fiber.New(fiber.Config{
		AppName:           "TrackNest",
		EnablePrintRoutes: env.IsDev(),
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "admin"),
		},
	}), monitor.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
