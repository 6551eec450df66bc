package api

import (
	"context"

	"github.com/google/uuid"

	"rankdash/internal/catalog"
	"rankdash/internal/models"
	"rankdash/internal/revenue"
)

// Store is the persistence the API handlers depend on. *db.DB implements it.
type Store interface {
	Ping(ctx context.Context) error
	InitSchema(ctx context.Context) error
	Reset(ctx context.Context) error
	SeedKeywords(ctx context.Context) (int, error)

	ListKeywords(ctx context.Context, category string) ([]models.Keyword, error)
	GetKeyword(ctx context.Context, id uuid.UUID) (*models.Keyword, error)
	CreateKeywords(ctx context.Context, keywords []models.Keyword) ([]models.Keyword, error)
	UpdateKeywordRank(ctx context.Context, id uuid.UUID, rank int) (*models.Keyword, error)
	SaveKeywordRanks(ctx context.Context, keywords []models.Keyword) error

	ListRankings(ctx context.Context, keywordID *uuid.UUID) ([]models.Ranking, error)
	UpsertRankings(ctx context.Context, rankings []models.Ranking) ([]models.Ranking, error)
	UpdateRanking(ctx context.Context, r *models.Ranking) error

	ListClients(ctx context.Context) ([]models.Client, error)
	CreateClients(ctx context.Context, clients []models.Client) (int, error)

	ListGlobalKeywords(ctx context.Context, category string) ([]models.GlobalKeyword, error)
	UpsertGlobalKeywords(ctx context.Context, keywords []models.GlobalKeyword) (int, error)
}

// Estimates bundles what handlers need to compute revenue figures.
type Estimates struct {
	Estimator *revenue.Estimator
	Catalog   *catalog.Catalog
	Defaults  revenue.Params
}

// resolver returns a per-keyword params resolver, loading the catalog first.
func (e *Estimates) resolver(ctx context.Context) (revenue.ParamsFunc, error) {
	if err := e.Catalog.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	return e.Catalog.Params(e.Defaults), nil
}
