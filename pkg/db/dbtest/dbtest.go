// Package dbtest opens isolated in-memory databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/glassworks-backend/pkg/db"
)

// NewClient returns a migrated SQLite client private to the test.
func NewClient(t testing.TB) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	client, err := db.NewSQLite(context.Background(), dsn, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return client
}
