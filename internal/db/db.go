package db

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"rankdash/internal/models"
	"rankdash/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool

	connString string
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool, connString: connString}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// InitSchema runs migrations against the connection the pool was opened with.
func (d *DB) InitSchema(ctx context.Context) error {
	return d.RunMigrations(d.connString)
}

// Ping checks the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// Reset removes all keywords and their rankings.
func (d *DB) Reset(ctx context.Context) error {
	if _, err := d.Pool.Exec(ctx, `TRUNCATE rankings, keywords`); err != nil {
		return fmt.Errorf("failed to reset keywords: %w", err)
	}
	return nil
}

// demoKeywords is the dataset inserted by SeedKeywords.
var demoKeywords = []models.Keyword{
	{Text: "plumber near me", MonthlySearches: 12100, Competition: models.CompetitionHigh, CPC: 18.5, Difficulty: 62, City: "Austin", State: "TX", Category: "plumbing", AvgJobSize: 350, CurrentRank: 7, TargetRank: 3, Competitor1Rank: models.IntPtr(1), Competitor2Rank: models.IntPtr(2), Competitor3Rank: models.IntPtr(4)},
	{Text: "emergency plumber", MonthlySearches: 4400, Competition: models.CompetitionHigh, CPC: 24.1, Difficulty: 55, City: "Austin", State: "TX", Category: "plumbing", AvgJobSize: 450, CurrentRank: 12, TargetRank: 3, Competitor1Rank: models.IntPtr(1), Competitor2Rank: models.IntPtr(3)},
	{Text: "water heater repair", MonthlySearches: 2900, Competition: models.CompetitionMedium, CPC: 14.2, Difficulty: 41, City: "Austin", State: "TX", Category: "plumbing", AvgJobSize: 600, CurrentRank: 4, TargetRank: 1, Competitor1Rank: models.IntPtr(1)},
	{Text: "ac repair", MonthlySearches: 8100, Competition: models.CompetitionHigh, CPC: 21.7, Difficulty: 58, City: "Austin", State: "TX", Category: "hvac", AvgJobSize: 500, TargetRank: 3, Competitor1Rank: models.IntPtr(1), Competitor2Rank: models.IntPtr(2), Competitor3Rank: models.IntPtr(3)},
	{Text: "roof replacement cost", MonthlySearches: 1600, Competition: models.CompetitionMedium, CPC: 12.9, Difficulty: 37, City: "Round Rock", State: "TX", Category: "roofing", AvgJobSize: 8500, CurrentRank: 9, TargetRank: 3, Competitor1Rank: models.IntPtr(2)},
	{Text: "drain cleaning", MonthlySearches: 1900, Competition: models.CompetitionLow, CPC: 9.8, Difficulty: 29, City: "Austin", State: "TX", Category: "plumbing", AvgJobSize: 200, CurrentRank: 2, TargetRank: 1},
}

// SeedKeywords inserts the demo keywords. Keywords that already exist are
// left untouched. Returns the number inserted.
func (d *DB) SeedKeywords(ctx context.Context) (int, error) {
	query := `
		INSERT INTO keywords (` + keywordInsertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (LOWER(keyword), state, city) DO NOTHING
	`

	inserted := 0
	for _, kw := range demoKeywords {
		tag, err := d.Pool.Exec(ctx, query, keywordArgs(&kw)...)
		if err != nil {
			return inserted, fmt.Errorf("failed to seed keyword %s: %w", kw.Text, err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

// SeedIfEmpty seeds demo keywords only when the keywords table is empty.
func (d *DB) SeedIfEmpty(ctx context.Context) (int, error) {
	var count int
	if err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM keywords`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count keywords: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	return d.SeedKeywords(ctx)
}
