package db

import (
	"context"
	"fmt"

	"rankdash/internal/models"
)

// ListClients returns all clients ordered by business name.
func (d *DB) ListClients(ctx context.Context) ([]models.Client, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, business_name, category, city, state, website, phone, email,
			avg_job_value, conversion_rate, visibility_score, created_at
		FROM clients
		ORDER BY business_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(
			&c.ID,
			&c.BusinessName,
			&c.Category,
			&c.City,
			&c.State,
			&c.Website,
			&c.Phone,
			&c.Email,
			&c.AvgJobValue,
			&c.ConversionRate,
			&c.VisibilityScore,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// CreateClients inserts clients, replacing the details of any client with
// the same business name. Returns the number of rows written.
func (d *DB) CreateClients(ctx context.Context, clients []models.Client) (int, error) {
	query := `
		INSERT INTO clients (business_name, category, city, state, website, phone, email,
			avg_job_value, conversion_rate, visibility_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (LOWER(business_name)) DO UPDATE SET
			category = EXCLUDED.category,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			website = EXCLUDED.website,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			avg_job_value = EXCLUDED.avg_job_value,
			conversion_rate = EXCLUDED.conversion_rate,
			visibility_score = EXCLUDED.visibility_score
	`

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	written := 0
	for _, c := range clients {
		tag, err := tx.Exec(ctx, query,
			c.BusinessName,
			c.Category,
			c.City,
			c.State,
			c.Website,
			c.Phone,
			c.Email,
			c.AvgJobValue,
			c.ConversionRate,
			c.VisibilityScore,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to save client %q: %w", c.BusinessName, err)
		}
		written += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit clients: %w", err)
	}
	return written, nil
}
