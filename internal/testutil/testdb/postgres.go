// Package testdb starts one throwaway PostgreSQL container per test binary
// and hands out a migrated pgx pool.
//
// Tests using the shared container must not run in parallel; call
// CleanupTables at the start of each subtest instead.
package testdb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/yigit/buspass/internal/app/migrations"
)

var (
	sharedContainer *PostgresContainer
	sharedErr       error
	sharedOnce      sync.Once
)

// PostgresContainer wraps the postgres testcontainer
type PostgresContainer struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	DSN       string
}

// SetupSharedPostgres returns the migrated shared container, skipping the
// test under -short.
func SetupSharedPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	sharedOnce.Do(func() {
		sharedContainer, sharedErr = start()
	})
	require.NoError(t, sharedErr)

	return sharedContainer
}

func start() (*PostgresContainer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("buspass_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2),
		),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	if err := migrations.NewMigrator(pool).Migrate(ctx, migrations.Files()); err != nil {
		return nil, err
	}

	return &PostgresContainer{Container: pgContainer, Pool: pool, DSN: connStr}, nil
}

// CleanupTables truncates the given tables and resets their sequences
func CleanupTables(t *testing.T, pool *pgxpool.Pool, tables ...string) {
	t.Helper()

	ctx := context.Background()
	for _, table := range tables {
		_, err := pool.Exec(ctx, "TRUNCATE "+table+" RESTART IDENTITY CASCADE")
		require.NoError(t, err, "failed to truncate table: %s", table)
	}
}

// ResetAll empties every application table
func ResetAll(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	CleanupTables(t, pool, "bus_passes", "students", "bus_routes", "sessions", "users")
}
