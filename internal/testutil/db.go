package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// PostgresEnv включает тесты, которым нужен Docker.
const PostgresEnv = "SENTINEL_PG_TESTS"

// SetupPostgres запускает PostgreSQL testcontainer и возвращает DSN.
// Использует модуль postgres с BasicWaitStrategies (log occurrence(2) + port check).
// Тест пропускается, если SENTINEL_PG_TESTS не равен "1".
func SetupPostgres(tb testing.TB) string {
	tb.Helper()
	if os.Getenv(PostgresEnv) != "1" {
		tb.Skipf("set %s=1 to run PostgreSQL tests", PostgresEnv)
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		tb.Fatalf("starting postgres container: %v", err)
	}

	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			tb.Logf("terminating postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("getting connection string: %v", err)
	}
	return dsn
}
