package api

import (
	"github.com/gofiber/fiber/v3"

	"rankdash/internal/catalog"
	"rankdash/internal/models"
)

// ReferenceHandler serves clients, categories and global keywords.
type ReferenceHandler struct {
	store   Store
	catalog *catalog.Catalog
}

// NewReferenceHandler creates a new API reference data handler.
func NewReferenceHandler(store Store, cat *catalog.Catalog) *ReferenceHandler {
	return &ReferenceHandler{store: store, catalog: cat}
}

// Clients returns all clients.
func (h *ReferenceHandler) Clients(c fiber.Ctx) error {
	clients, err := h.store.ListClients(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch clients")
	}
	if clients == nil {
		clients = []models.Client{}
	}
	return jsonSuccess(c, clients)
}

// Categories returns the business category catalog.
func (h *ReferenceHandler) Categories(c fiber.Ctx) error {
	if err := h.catalog.EnsureLoaded(c.Context()); err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "categories unavailable")
	}
	return jsonSuccess(c, h.catalog.All())
}

// GlobalKeywords returns global keywords, optionally filtered by category.
func (h *ReferenceHandler) GlobalKeywords(c fiber.Ctx) error {
	keywords, err := h.store.ListGlobalKeywords(c.Context(), c.Query("category"))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch global keywords")
	}
	if keywords == nil {
		keywords = []models.GlobalKeyword{}
	}
	return jsonSuccess(c, keywords)
}
