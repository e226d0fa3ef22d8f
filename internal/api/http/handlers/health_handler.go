package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/loanworks/loan-service/internal/persistence"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	postgres *persistence.Postgres
	redis    *persistence.Redis
}

// NewHealthHandler constructs handler.
func NewHealthHandler(postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{postgres: postgres, redis: redis}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready GET /health/ready. Reports per-dependency state; degraded
// dependencies flip the overall status but the endpoint still answers 200
// so probes can read the detail.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx := c.UserContext()
	checks := fiber.Map{}
	healthy := true

	if h.postgres != nil && h.postgres.PoolHandle() != nil {
		if err := h.postgres.Ping(ctx); err != nil {
			checks["postgres"] = err.Error()
			healthy = false
		} else {
			checks["postgres"] = "ok"
		}
	} else {
		// No DSN configured; the service runs on in-memory storage.
		checks["postgres"] = "in-memory"
	}

	if h.redis != nil && h.redis.ClientHandle() != nil {
		if err := h.redis.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "disabled"
	}

	status := "ok"
	if !healthy {
		status = "degraded"
	}
	return c.JSON(fiber.Map{"status": status, "checks": checks})
}
