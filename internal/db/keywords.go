package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"rankdash/internal/models"
)

// keywordColumns is the standard column list for keyword queries.
const keywordColumns = `id, keyword, monthly_searches, competition, cpc, difficulty,
	state, city, category, avg_job_size, current_rank, target_rank,
	competitor1_rank, competitor2_rank, competitor3_rank, created_at, updated_at`

// keywordInsertColumns are the caller-supplied keyword columns, in keywordArgs order.
const keywordInsertColumns = `keyword, monthly_searches, competition, cpc, difficulty,
	state, city, category, avg_job_size, current_rank, target_rank,
	competitor1_rank, competitor2_rank, competitor3_rank`

func keywordArgs(kw *models.Keyword) []any {
	target := kw.TargetRank
	if target < 1 {
		target = 3
	}
	return []any{
		kw.Text,
		kw.MonthlySearches,
		kw.Competition,
		kw.CPC,
		kw.Difficulty,
		kw.State,
		kw.City,
		kw.Category,
		kw.AvgJobSize,
		kw.CurrentRank,
		target,
		kw.Competitor1Rank,
		kw.Competitor2Rank,
		kw.Competitor3Rank,
	}
}

func scanKeywordInto(row pgx.Row, kw *models.Keyword) error {
	return row.Scan(
		&kw.ID,
		&kw.Text,
		&kw.MonthlySearches,
		&kw.Competition,
		&kw.CPC,
		&kw.Difficulty,
		&kw.State,
		&kw.City,
		&kw.Category,
		&kw.AvgJobSize,
		&kw.CurrentRank,
		&kw.TargetRank,
		&kw.Competitor1Rank,
		&kw.Competitor2Rank,
		&kw.Competitor3Rank,
		&kw.CreatedAt,
		&kw.UpdatedAt,
	)
}

// scanKeyword scans a row into a Keyword struct.
func scanKeyword(row pgx.Row) (*models.Keyword, error) {
	var kw models.Keyword
	err := scanKeywordInto(row, &kw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrKeywordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &kw, nil
}

// scanKeywords scans multiple rows into a slice of Keywords.
func scanKeywords(rows pgx.Rows) ([]models.Keyword, error) {
	defer rows.Close()

	var keywords []models.Keyword
	for rows.Next() {
		var kw models.Keyword
		if err := scanKeywordInto(rows, &kw); err != nil {
			return nil, err
		}
		keywords = append(keywords, kw)
	}

	return keywords, rows.Err()
}

// ListKeywords returns all keywords, optionally filtered by category.
func (d *DB) ListKeywords(ctx context.Context, category string) ([]models.Keyword, error) {
	query := `
		SELECT ` + keywordColumns + `
		FROM keywords
		WHERE $1 = '' OR category = $1
		ORDER BY monthly_searches DESC, keyword ASC
	`

	rows, err := d.Pool.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	return scanKeywords(rows)
}

// GetKeyword retrieves a keyword by ID.
func (d *DB) GetKeyword(ctx context.Context, id uuid.UUID) (*models.Keyword, error) {
	query := `SELECT ` + keywordColumns + ` FROM keywords WHERE id = $1`
	return scanKeyword(d.Pool.QueryRow(ctx, query, id))
}

// CreateKeywords inserts keywords in one transaction. A keyword that already
// exists for the same location has its metrics replaced; its rank is only
// replaced when the incoming keyword carries one.
func (d *DB) CreateKeywords(ctx context.Context, keywords []models.Keyword) ([]models.Keyword, error) {
	query := `
		INSERT INTO keywords (` + keywordInsertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (LOWER(keyword), state, city) DO UPDATE SET
			monthly_searches = EXCLUDED.monthly_searches,
			competition = EXCLUDED.competition,
			cpc = EXCLUDED.cpc,
			difficulty = EXCLUDED.difficulty,
			category = EXCLUDED.category,
			avg_job_size = EXCLUDED.avg_job_size,
			current_rank = CASE WHEN EXCLUDED.current_rank > 0 THEN EXCLUDED.current_rank ELSE keywords.current_rank END,
			target_rank = EXCLUDED.target_rank,
			competitor1_rank = COALESCE(EXCLUDED.competitor1_rank, keywords.competitor1_rank),
			competitor2_rank = COALESCE(EXCLUDED.competitor2_rank, keywords.competitor2_rank),
			competitor3_rank = COALESCE(EXCLUDED.competitor3_rank, keywords.competitor3_rank),
			updated_at = NOW()
		RETURNING ` + keywordColumns

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	created := make([]models.Keyword, 0, len(keywords))
	for i := range keywords {
		var kw models.Keyword
		if err := scanKeywordInto(tx.QueryRow(ctx, query, keywordArgs(&keywords[i])...), &kw); err != nil {
			return nil, fmt.Errorf("failed to insert keyword %q: %w", keywords[i].Text, err)
		}
		created = append(created, kw)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit keywords: %w", err)
	}
	return created, nil
}

// UpdateKeywordRank sets the business's current rank for a keyword.
// A rank of 0 marks the keyword as not ranked.
func (d *DB) UpdateKeywordRank(ctx context.Context, id uuid.UUID, rank int) (*models.Keyword, error) {
	query := `
		UPDATE keywords
		SET current_rank = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + keywordColumns

	return scanKeyword(d.Pool.QueryRow(ctx, query, id, rank))
}

// SaveKeywordRanks writes the current and competitor ranks of each keyword.
func (d *DB) SaveKeywordRanks(ctx context.Context, keywords []models.Keyword) error {
	if len(keywords) == 0 {
		return nil
	}

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, kw := range keywords {
		result, err := tx.Exec(ctx, `
			UPDATE keywords
			SET current_rank = $2, competitor1_rank = $3, competitor2_rank = $4,
				competitor3_rank = $5, updated_at = NOW()
			WHERE id = $1
		`, kw.ID, kw.CurrentRank, kw.Competitor1Rank, kw.Competitor2Rank, kw.Competitor3Rank)
		if err != nil {
			return fmt.Errorf("failed to update ranks for %q: %w", kw.Text, err)
		}
		if result.RowsAffected() == 0 {
			return ErrKeywordNotFound
		}
	}

	return tx.Commit(ctx)
}
