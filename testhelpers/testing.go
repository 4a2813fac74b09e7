package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"navhub/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to TEST_DATABASE_URL, applies migrations and empties
// every table. The test is skipped when the variable is unset.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.RunMigrations(ctx, connString); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	pool, err := database.NewPool(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	db := &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
	TruncateAll(t, db)
	t.Cleanup(func() { _ = db.Cleanup() })
	return db
}

// TruncateAll removes every row, including the seeded demo data.
func TruncateAll(t *testing.T, db *TestDB) {
	t.Helper()

	_, err := db.Pool.Exec(context.Background(), `TRUNCATE links, categories, bookmarks, config RESTART IDENTITY`)
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// SetupTestCategory inserts a category and returns its id.
func SetupTestCategory(t *testing.T, db *TestDB, name string, parentID *int64, sortOrder int) int64 {
	t.Helper()

	var id int64
	query := `INSERT INTO categories (name, parent_id, sort_order) VALUES ($1, $2, $3) RETURNING id`
	if err := db.Pool.QueryRow(context.Background(), query, name, parentID, sortOrder).Scan(&id); err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}
	return id
}

// SetupTestLink inserts a link and returns its id.
func SetupTestLink(t *testing.T, db *TestDB, title string, categoryID *int64, sortOrder int, hidden bool) int64 {
	t.Helper()

	var id int64
	query := `
		INSERT INTO links (title, url, category_id, sort_order, is_hidden)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := db.Pool.QueryRow(context.Background(), query, title, "https://example.com/"+title, categoryID, sortOrder, hidden).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test link: %v", err)
	}
	return id
}

// SetupTestRedis connects to TEST_REDIS_ADDR and flushes the selected
// database. The test is skipped when the variable is unset.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping integration test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to test redis: %v", err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}
