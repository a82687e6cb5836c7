package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/store"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	redis   *store.Redis
	version string
}

// NewHealthHandler constructs handler. redis may be nil.
func NewHealthHandler(redis *store.Redis, version string) *HealthHandler {
	return &HealthHandler{redis: redis, version: version}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"status": "ok", "version": h.version}})
}

// Ready GET /health/ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := fiber.Map{}
	if h.redis != nil {
		if err := h.redis.Ping(c.Context()); err != nil {
			checks["redis"] = "unreachable"
		} else {
			checks["redis"] = "ok"
		}
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"status": "ready", "checks": checks}})
}
