package migrate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 2, 10, 4, 5, 0, time.UTC)

	path, err := CreateSQLMigration(dir, "Add Listing Views!", now)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "20260302100405_add_listing_views.sql"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(body), "-- +goose Up")
	require.Contains(t, string(body), "-- rollback add_listing_views")
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "Add Listing Views!", now)
	require.Error(t, err, "existing files are never overwritten")

	_, err = CreateSQLMigration(dir, "!!!", now)
	require.Error(t, err)
}
