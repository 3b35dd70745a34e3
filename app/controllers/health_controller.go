package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/influxity/influxity/internal/pkg/aicache"
	"github.com/influxity/influxity/internal/pkg/database"
)

// HealthController reports service status, database reachability and cache
// statistics.
type HealthController struct {
	cache     aicache.ResponseCache
	startedAt time.Time
}

// NewHealthController creates a new health controller
func NewHealthController(cache aicache.ResponseCache) *HealthController {
	return &HealthController{cache: cache, startedAt: time.Now()}
}

func (hc *HealthController) HandleHealth(c *fiber.Ctx) error {
	status := "healthy"

	dbCheck := fiber.Map{"status": "healthy"}
	dbStart := time.Now()
	if db := database.GetDB(); db != nil {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			dbCheck["status"] = "unhealthy"
			status = "degraded"
		}
	} else {
		dbCheck["status"] = "unavailable"
		status = "degraded"
	}
	dbCheck["response_time_ms"] = time.Since(dbStart).Milliseconds()

	return c.JSON(fiber.Map{
		"status":         status,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds": int64(time.Since(hc.startedAt).Seconds()),
		"checks": fiber.Map{
			"database": dbCheck,
			"cache": fiber.Map{
				"status": "healthy",
				"stats":  hc.cache.Stats(),
			},
		},
	})
}
