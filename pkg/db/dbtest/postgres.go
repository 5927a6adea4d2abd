package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/angelmondragon/glassworks-backend/pkg/config"
	"github.com/angelmondragon/glassworks-backend/pkg/db"
	"github.com/angelmondragon/glassworks-backend/pkg/migrate"
)

// EnvIntegration opts a test run into the container-backed Postgres tests.
const EnvIntegration = "GLASSWORKS_INTEGRATION"

// NewPostgres starts a disposable Postgres, applies the embedded goose
// migrations and returns a client for it. The test is skipped under -short,
// without EnvIntegration, or when no container runtime is reachable.
func NewPostgres(t testing.TB) *db.Client {
	t.Helper()
	if testing.Short() || os.Getenv(EnvIntegration) == "" {
		t.Skipf("set %s=1 to run postgres integration tests", EnvIntegration)
	}
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("glassworks"),
		tcpostgres.WithUsername("glassworks"),
		tcpostgres.WithPassword("glassworks"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres dsn: %v", err)
	}

	client, err := db.New(ctx, config.DBConfig{
		DSN:             dsn,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Minute,
	}, nil)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.SQLDB()
	if err != nil {
		t.Fatalf("postgres sql handle: %v", err)
	}
	if err := migrate.RunEmbedded(ctx, sqlDB, "up"); err != nil {
		t.Fatalf("migrate postgres: %v", err)
	}
	return client
}
