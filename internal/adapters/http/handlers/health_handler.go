package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck checks one dependency
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	mode   string
	checks []HealthCheck
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(mode string, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		mode:   mode,
		checks: checks,
	}
}

// Root handles root endpoint
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "Skillbook API is running",
		"mode":    h.mode,
	})
}

// HealthCheck reports the state of each configured dependency
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	checks := fiber.Map{"api": "healthy"}
	for _, hc := range h.checks {
		if err := hc.Check(ctx); err != nil {
			checks[hc.Name] = "unhealthy"
			status = "degraded"
			continue
		}
		checks[hc.Name] = "healthy"
	}

	return c.JSON(fiber.Map{
		"status": status,
		"checks": checks,
	})
}
