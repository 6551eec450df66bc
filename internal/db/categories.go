package db

import (
	"context"
	"fmt"

	"rankdash/internal/models"
)

// ListCategories returns the stored business categories.
func (d *DB) ListCategories(ctx context.Context) ([]models.BusinessCategory, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, name, icon, avg_job_value, conversion_rate
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.BusinessCategory
	for rows.Next() {
		var c models.BusinessCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.AvgJobValue, &c.ConversionRate); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpsertCategories inserts or replaces categories by ID.
func (d *DB) UpsertCategories(ctx context.Context, categories []models.BusinessCategory) error {
	for _, c := range categories {
		_, err := d.Pool.Exec(ctx, `
			INSERT INTO categories (id, name, icon, avg_job_value, conversion_rate)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				icon = EXCLUDED.icon,
				avg_job_value = EXCLUDED.avg_job_value,
				conversion_rate = EXCLUDED.conversion_rate
		`, c.ID, c.Name, c.Icon, c.AvgJobValue, c.ConversionRate)
		if err != nil {
			return fmt.Errorf("failed to upsert category %s: %w", c.ID, err)
		}
	}
	return nil
}
