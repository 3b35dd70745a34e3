package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/influxity/influxity/app/repository"
	"github.com/influxity/influxity/internal/pkg/aicache"
	"github.com/influxity/influxity/internal/pkg/billing"
	"github.com/influxity/influxity/internal/pkg/cache"
	"github.com/influxity/influxity/internal/pkg/database"
	"github.com/influxity/influxity/internal/pkg/env"
	"github.com/influxity/influxity/internal/pkg/llm"
	"github.com/influxity/influxity/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	billing.SetupStripe()

	db := database.GetDB()
	repository.InitializeFactory(db)
	repos := repository.GetGlobalFactory().GetRepositories()

	responseCache := newResponseCache()
	billingService := billing.NewService(billing.NewRepository(db), billing.StripeRetriever{})
	invoker := llm.NewClientFromEnv()

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName: "Influxity",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins: env.GetEnv("CORS_ALLOW_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Stripe-Signature",
	}))

	// ROUTER
	router.InstallRouter(app, router.Dependencies{
		Repos:   repos,
		Billing: billingService,
		Invoker: invoker,
		Cache:   responseCache,
	})

	return app
}

// newResponseCache picks the cache backend: in-process by default, Redis
// when CACHE_DRIVER=redis so replicas share one cache.
func newResponseCache() aicache.ResponseCache {
	if env.GetEnv("CACHE_DRIVER", "memory") == "redis" {
		cache.SetupCache()
		return aicache.NewRedis(cache.GetClient(), aicache.Config{})
	}
	return aicache.New(aicache.Config{})
}
