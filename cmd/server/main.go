package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rankdash/internal/catalog"
	"rankdash/internal/config"
	"rankdash/internal/ctr"
	"rankdash/internal/db"
	"rankdash/internal/handlers/api"
	"rankdash/internal/jobs"
	"rankdash/internal/metrics"
	"rankdash/internal/middleware"
	"rankdash/internal/models"
	"rankdash/internal/revenue"
	"rankdash/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Load YAML config (categories, estimate defaults)
	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}
	yamlCfg.ApplyTo(cfg)

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	if categories := yamlCfg.GetCategories(); len(categories) > 0 {
		if err := database.UpsertCategories(ctx, categories); err != nil {
			log.Fatalf("Failed to store configured categories: %v", err)
		}
		log.Printf("Loaded %d categories from config file", len(categories))
	}

	if cfg.AutoSeed {
		n, err := database.SeedIfEmpty(ctx)
		if err != nil {
			log.Printf("Warning: failed to seed demo keywords: %v", err)
		} else if n > 0 {
			log.Printf("Seeded %d demo keywords", n)
		}
	}

	// Category catalog: database first, built-in list when the table is empty
	cat := catalog.New(catalog.FirstNonEmpty(database.ListCategories, catalog.Static(models.DefaultCategories)))
	if err := cat.EnsureLoaded(ctx); err != nil {
		log.Printf("Warning: failed to load categories, will retry on first request: %v", err)
	}

	estimates := &api.Estimates{
		Estimator: revenue.NewEstimator(ctr.WithFallback(cfg.CTRFallback)),
		Catalog:   cat,
		Defaults: revenue.Params{
			AvgJobValue:    cfg.DefaultAvgJobValue,
			ConversionRate: cfg.DefaultConversionRate,
			TargetRank:     cfg.TargetRank,
		},
	}

	metrics.Init(metrics.NewRevenueCollector(database, estimates.Estimator, cat.Params(estimates.Defaults)))

	// Bearer token auth: static API token and/or OIDC ID tokens
	var verifiers []middleware.TokenVerifier
	if cfg.APIToken != "" {
		verifiers = append(verifiers, middleware.StaticToken(cfg.APIToken))
	}
	if cfg.OIDCIssuer != "" {
		v, err := middleware.NewOIDCVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
		if err != nil {
			log.Fatalf("Failed to initialize OIDC verifier: %v", err)
		}
		verifiers = append(verifiers, v)
	}
	if !cfg.IsAuthConfigured() {
		if cfg.IsDev() {
			log.Println("Warning: no API_TOKEN or OIDC_ISSUER set, API is open (development mode)")
		} else {
			log.Println("Warning: no API_TOKEN or OIDC_ISSUER set, API requests will be rejected")
		}
	}
	auth := middleware.NewAuthMiddleware(cfg.IsDev(), verifiers...)

	srv := server.New(cfg)
	srv.RegisterRoutes(server.Deps{
		Store:     database,
		Estimates: estimates,
		Catalog:   cat,
		Auth:      auth,
	})

	// Background jobs
	go jobs.NewCategoryRefresher(cat, cfg.CategoryRefreshInterval).Start(ctx)

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
