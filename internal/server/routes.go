package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rankdash/internal/catalog"
	"rankdash/internal/handlers/api"
	"rankdash/internal/middleware"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Store     api.Store
	Estimates *api.Estimates
	Catalog   *catalog.Catalog
	Auth      *middleware.AuthMiddleware
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(deps Deps) {
	auth := deps.Auth.RequireAuth

	// Initialize handlers
	adminHandler := api.NewAdminHandler(deps.Store)
	keywordHandler := api.NewKeywordHandler(deps.Store, deps.Estimates)
	rankingHandler := api.NewRankingHandler(deps.Store)
	importHandler := api.NewImportHandler(deps.Store)
	dashboardHandler := api.NewDashboardHandler(deps.Store, deps.Estimates)
	referenceHandler := api.NewReferenceHandler(deps.Store, deps.Catalog)

	// Public routes
	s.App.Get("/health", adminHandler.Health)
	s.App.Get("/healthz", adminHandler.Liveness)
	s.App.Get("/readyz", adminHandler.Health)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Dataset administration
	s.App.Post("/init-db", auth, adminHandler.InitDB)
	s.App.Delete("/reset", auth, adminHandler.Reset)
	s.App.Post("/seed-keywords", auth, adminHandler.Seed)

	// Keywords
	s.App.Get("/keywords", auth, keywordHandler.List)
	s.App.Post("/keywords", auth, keywordHandler.Create)
	s.App.Put("/keywords/:id/rank", auth, keywordHandler.UpdateRank)
	s.App.Get("/keywords/:id/revenue", auth, keywordHandler.Revenue)
	s.App.Get("/keywords/:id/competitors", auth, keywordHandler.Competitors)

	// Rankings
	s.App.Get("/rankings", auth, rankingHandler.List)
	s.App.Post("/rankings", auth, rankingHandler.Upsert)
	s.App.Put("/rankings/:id", auth, rankingHandler.Update)

	// Imports and templates
	s.App.Post("/import/keywords/csv", auth, importHandler.KeywordsCSV)
	s.App.Post("/import/rankings/csv", auth, importHandler.RankingsCSV)
	s.App.Post("/import/excel/:kind", auth, importHandler.Excel)
	s.App.Get("/templates/:kind", auth, importHandler.Template)

	// Dashboard and reports
	s.App.Get("/dashboard/summary", auth, dashboardHandler.Summary)
	s.App.Get("/reports/revenue.xlsx", auth, dashboardHandler.RevenueReport)

	// Reference data
	s.App.Get("/clients", auth, referenceHandler.Clients)
	s.App.Get("/categories", auth, referenceHandler.Categories)
	s.App.Get("/global-keywords", auth, referenceHandler.GlobalKeywords)
}
