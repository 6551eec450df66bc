package db

import (
	"context"
	"fmt"

	"rankdash/internal/models"
)

// ListGlobalKeywords returns global keywords, optionally filtered by category.
func (d *DB) ListGlobalKeywords(ctx context.Context, category string) ([]models.GlobalKeyword, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, keyword, category, search_volume, cpc, difficulty, created_at
		FROM global_keywords
		WHERE $1 = '' OR category = $1
		ORDER BY category, search_volume DESC
	`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list global keywords: %w", err)
	}
	defer rows.Close()

	var keywords []models.GlobalKeyword
	for rows.Next() {
		var k models.GlobalKeyword
		if err := rows.Scan(&k.ID, &k.Keyword, &k.Category, &k.SearchVolume, &k.CPC, &k.Difficulty, &k.CreatedAt); err != nil {
			return nil, err
		}
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}

// UpsertGlobalKeywords inserts or replaces global keywords by (keyword, category).
// Returns the number of rows written.
func (d *DB) UpsertGlobalKeywords(ctx context.Context, keywords []models.GlobalKeyword) (int, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	written := 0
	for _, k := range keywords {
		tag, err := tx.Exec(ctx, `
			INSERT INTO global_keywords (keyword, category, search_volume, cpc, difficulty)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (LOWER(keyword), category) DO UPDATE SET
				search_volume = EXCLUDED.search_volume,
				cpc = EXCLUDED.cpc,
				difficulty = EXCLUDED.difficulty
		`, k.Keyword, k.Category, k.SearchVolume, k.CPC, k.Difficulty)
		if err != nil {
			return 0, fmt.Errorf("failed to save global keyword %q: %w", k.Keyword, err)
		}
		written += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit global keywords: %w", err)
	}
	return written, nil
}
