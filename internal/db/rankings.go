package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"rankdash/internal/models"
)

const rankingColumns = `id, keyword_id, rank, entity_name, traffic_share, is_my_business, created_at, updated_at`

func scanRankingInto(row pgx.Row, r *models.Ranking) error {
	return row.Scan(
		&r.ID,
		&r.KeywordID,
		&r.Rank,
		&r.EntityName,
		&r.TrafficShare,
		&r.IsMyBusiness,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
}

// ListRankings returns rankings ordered by keyword then rank. When keywordID
// is non-nil only that keyword's rankings are returned.
func (d *DB) ListRankings(ctx context.Context, keywordID *uuid.UUID) ([]models.Ranking, error) {
	query := `
		SELECT ` + rankingColumns + `
		FROM rankings
		WHERE $1::uuid IS NULL OR keyword_id = $1
		ORDER BY keyword_id, rank, entity_name
	`

	rows, err := d.Pool.Query(ctx, query, keywordID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rankings: %w", err)
	}
	defer rows.Close()

	var rankings []models.Ranking
	for rows.Next() {
		var r models.Ranking
		if err := scanRankingInto(rows, &r); err != nil {
			return nil, err
		}
		rankings = append(rankings, r)
	}
	return rankings, rows.Err()
}

// UpsertRankings writes rankings keyed by (keyword, entity name, rank).
// Within one call and across calls, the later write wins.
func (d *DB) UpsertRankings(ctx context.Context, rankings []models.Ranking) ([]models.Ranking, error) {
	rankings = models.DedupeRankings(rankings)

	query := `
		INSERT INTO rankings (keyword_id, rank, entity_name, traffic_share, is_my_business)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (keyword_id, LOWER(entity_name), rank) DO UPDATE SET
			entity_name = EXCLUDED.entity_name,
			traffic_share = EXCLUDED.traffic_share,
			is_my_business = EXCLUDED.is_my_business,
			updated_at = NOW()
		RETURNING ` + rankingColumns

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	saved := make([]models.Ranking, 0, len(rankings))
	for _, r := range rankings {
		var out models.Ranking
		err := scanRankingInto(tx.QueryRow(ctx, query,
			r.KeywordID,
			r.Rank,
			r.EntityName,
			r.TrafficShare,
			r.IsMyBusiness,
		), &out)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return nil, ErrKeywordNotFound
			}
			return nil, fmt.Errorf("failed to upsert ranking: %w", err)
		}
		saved = append(saved, out)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit rankings: %w", err)
	}
	return saved, nil
}

// UpdateRanking updates the rank, name, share and ownership of one ranking.
func (d *DB) UpdateRanking(ctx context.Context, r *models.Ranking) error {
	query := `
		UPDATE rankings
		SET rank = $2, entity_name = $3, traffic_share = $4, is_my_business = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + rankingColumns

	err := scanRankingInto(d.Pool.QueryRow(ctx, query,
		r.ID,
		r.Rank,
		r.EntityName,
		r.TrafficShare,
		r.IsMyBusiness,
	), r)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRankingNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRanking
		}
		return fmt.Errorf("failed to update ranking: %w", err)
	}
	return nil
}
