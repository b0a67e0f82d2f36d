package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Uday261104/lms-v2/database"
	"github.com/Uday261104/lms-v2/utils/response"
)

// HealthHandler handles liveness and readiness checks
type HealthHandler struct {
	store database.Storage
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store database.Storage) *HealthHandler {
	return &HealthHandler{store: store}
}

// Ping reports service and database health
func (h *HealthHandler) Ping(c *fiber.Ctx) error {
	if err := h.store.HealthCheck(); err != nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "Database unreachable", "SERVICE_UNAVAILABLE")
	}
	return response.Success(c, fiber.Map{"status": "ok"})
}
