package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
)

// AdminHandler handles health, schema and dataset maintenance endpoints.
type AdminHandler struct {
	store Store
}

// NewAdminHandler creates a new API admin handler.
func NewAdminHandler(store Store) *AdminHandler {
	return &AdminHandler{store: store}
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
// Returns 200 OK if the application is running.
func (h *AdminHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Health reports whether the database is reachable. It also serves the
// /readyz readiness probe.
func (h *AdminHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		slog.Warn("health check failed", "error", err)
		return jsonError(c, fiber.StatusServiceUnavailable, "database unavailable")
	}
	return jsonSuccess(c, fiber.Map{"database": "ok"})
}

// InitDB applies any pending schema migrations.
func (h *AdminHandler) InitDB(c fiber.Ctx) error {
	if err := h.store.InitSchema(c.Context()); err != nil {
		slog.Error("schema init failed", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to initialize database")
	}
	return jsonSuccess(c, fiber.Map{"initialized": true})
}

// Reset removes every keyword and ranking.
func (h *AdminHandler) Reset(c fiber.Ctx) error {
	if err := h.store.Reset(c.Context()); err != nil {
		slog.Error("reset failed", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to reset data")
	}
	return jsonSuccess(c, fiber.Map{"reset": true})
}

// Seed inserts the demo keyword set.
func (h *AdminHandler) Seed(c fiber.Ctx) error {
	n, err := h.store.SeedKeywords(c.Context())
	if err != nil {
		slog.Error("seed failed", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to seed keywords")
	}
	return jsonSuccess(c, fiber.Map{"inserted": n})
}
