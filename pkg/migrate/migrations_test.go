package migrate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1, "expected one migration matching %s", suffix)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(data)
}

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestStockMigrationGuardsQuantity(t *testing.T) {
	content := readMigration(t, "create_stock_tables")
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS stock_items",
		"CREATE TABLE IF NOT EXISTS stock_movements",
		"CHECK (current_quantity >= 0)",
		"REFERENCES stock_items(id) ON DELETE CASCADE",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_stock_items_user_name",
	} {
		assert.Contains(t, content, sub)
	}
}

func TestCatalogMigrationEnforcesPieceUniqueness(t *testing.T) {
	content := readMigration(t, "create_catalog_tables")
	assert.Contains(t, content, "CREATE UNIQUE INDEX IF NOT EXISTS ux_pieces_user_unique_id ON pieces (user_id, unique_id)")
	assert.Contains(t, content, "gallery_id uuid REFERENCES galleries(id) ON DELETE SET NULL")
}

func TestOrderMigrationCascadesItems(t *testing.T) {
	content := readMigration(t, "create_order_tables")
	assert.Contains(t, content, "order_id uuid NOT NULL REFERENCES orders(id) ON DELETE CASCADE")
	assert.Contains(t, content, "total_amount numeric(12,2) NOT NULL DEFAULT 0")
}

func TestEmbeddedMigrationsMatchDisk(t *testing.T) {
	embeddedFiles, err := fs.Glob(FS(), EmbeddedDir+"/*.sql")
	require.NoError(t, err)
	diskFiles, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	require.NoError(t, err)
	assert.Equal(t, len(diskFiles), len(embeddedFiles))
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

	path, err := createSQLMigrationAt(dir, "Add Piece Tags!", at)
	require.NoError(t, err)
	assert.Equal(t, "20250601123000_add_piece_tags.sql", filepath.Base(path))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- add_piece_tags")
	assert.Contains(t, string(body), "REFERENCES users(id)")

	_, err = createSQLMigrationAt(dir, "add  piece-tags", at.Add(time.Hour))
	require.Error(t, err, "expected a second add_piece_tags to fail")
	assert.Contains(t, err.Error(), "already exists")

	path, err = createSQLMigrationAt(dir, "glaze colours", at.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "20250601123001_glaze_colours.sql", filepath.Base(path), "a lagging clock must not sort before existing migrations")

	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}

func TestMigrationSlug(t *testing.T) {
	assert.Equal(t, "add_piece_tags", migrationSlug("  Add Piece Tags! "))
	assert.Equal(t, "stock_v2", migrationSlug("stock__v2"))
	assert.Equal(t, "vidrio_soplado", migrationSlug("vidrio ñ soplado"))
	assert.Equal(t, "", migrationSlug("¡!"))
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.Error(t, ValidateDir(dir), "empty dir should fail")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	err := ValidateDir(dir)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid migration filename"))

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101000000_no_down.sql"), []byte("-- +goose Up\nSELECT 1;\n"), 0o644))
	require.Error(t, ValidateDir(dir))
}

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, ValidateFS(FS(), EmbeddedDir))
}
