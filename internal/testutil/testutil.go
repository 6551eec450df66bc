// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"os"
	"testing"

	"rankdash/internal/db"
)

// TestDB creates a test database connection and returns a cleanup function.
// Uses TEST_DATABASE_URL environment variable and skips the test when unset.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		database.Pool.Exec(ctx, "TRUNCATE rankings, keywords, clients, categories, global_keywords")
		database.Close()
	}

	return database, cleanup
}
