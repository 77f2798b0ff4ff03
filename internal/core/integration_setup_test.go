package core_test

import (
	"context"
	"os"
	"testing"

	"granite-console/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live one.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrations.Apply(ctx, pool); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE invoice_items, invoices, inventory_items, users CASCADE;

		INSERT INTO inventory_items (id, item_name, item_color, item_thickness, quantity, rate) VALUES
		('inv-black',  'Black Granite', 'Black', '18', 100, 1200),
		('inv-tan',    'Tan Brown',     'Brown', '20',  30,  800),
		('inv-white',  'Kashmir White', 'White', '18',  60,  950);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}
	return pool
}
