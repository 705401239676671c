package migrate_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/homescout/homescout-backend/pkg/migrate"
)

const migrationsDir = "migrations"

func TestValidateDir(t *testing.T) {
	require.NoError(t, migrate.ValidateDir(migrationsDir))

	empty := t.TempDir()
	require.Error(t, migrate.ValidateDir(empty))

	bad := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bad, "1_init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.Error(t, migrate.ValidateDir(bad))
}

func TestSalesMigrationGuardsLedger(t *testing.T) {
	content := readMigration(t, "*_create_sales_ledger.sql")
	for _, sub := range []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_sales_property_id ON sales (property_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_sale_type ON payments (sale_id, payment_type)",
		"final_price numeric(14,2) NOT NULL CHECK (final_price >= 0)",
		"from_user_id uuid REFERENCES users(id)",
		"DROP TABLE IF EXISTS payments",
	} {
		require.Contains(t, content, sub)
	}
}

func TestListingsMigrationEnforcesCombinedStatus(t *testing.T) {
	content := readMigration(t, "*_create_listings.sql")
	for _, sub := range []string{
		"(lifecycle_status = 'Removed' AND status = 'Inactive')",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_properties_seller_request_id",
		"ON property_photos (property_id) WHERE is_primary",
	} {
		require.Contains(t, content, sub)
	}
}

func TestMigrationsApplyOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "migrate.db")), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	dialect := migrate.Dialect("sqlite")
	require.NoError(t, migrate.Run(ctx, sqlDB, dialect, migrationsDir, "up"))

	for _, table := range []string{
		"users", "buyers", "sellers", "employees", "investors", "seller_requests",
		"properties", "property_photos", "enquiries", "sales", "payments", "property_investments",
	} {
		require.True(t, conn.Migrator().HasTable(table), table)
	}

	_, err = sqlDB.Exec(`INSERT INTO users (id, username, credential, role) VALUES ('u1', 'ghost', 'x', 'wizard')`)
	require.Error(t, err, "role check constraint")

	require.NoError(t, migrate.Run(ctx, sqlDB, dialect, migrationsDir, "reset"))
	require.False(t, conn.Migrator().HasTable("sales"))
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(migrationsDir, pattern))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}
