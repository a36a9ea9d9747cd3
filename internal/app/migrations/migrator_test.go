package migrations_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/buspass/internal/app/migrations"
	"github.com/yigit/buspass/internal/testutil/testdb"
)

func TestFiles_Embedded(t *testing.T) {
	fsys := migrations.Files()

	for _, name := range []string{"001_init.sql", "002_transport.sql"} {
		_, err := fsys.Open(name)
		assert.NoError(t, err, name)
	}
}

func TestMigrate_IdempotentAndRecorded(t *testing.T) {
	pg := testdb.SetupSharedPostgres(t)
	ctx := context.Background()
	m := migrations.NewMigrator(pg.Pool)

	// The shared container is already migrated; a second run is a no-op.
	require.NoError(t, m.Migrate(ctx, migrations.Files()))

	versions, err := m.AppliedVersions(ctx)
	require.NoError(t, err)
	assert.Contains(t, versions, "001")
	assert.Contains(t, versions, "002")

	extra := fstest.MapFS{
		"900_probe.sql": {Data: []byte(`CREATE TABLE IF NOT EXISTS migration_probe (id INT);`)},
		"README.md":     {Data: []byte("ignored")},
	}
	require.NoError(t, m.Migrate(ctx, extra))
	t.Cleanup(func() {
		_, _ = pg.Pool.Exec(ctx, `DROP TABLE IF EXISTS migration_probe`)
		_, _ = pg.Pool.Exec(ctx, `DELETE FROM schema_migrations WHERE version = '900'`)
	})

	versions, err = m.AppliedVersions(ctx)
	require.NoError(t, err)
	assert.Contains(t, versions, "900")
}

func TestMigrate_FailedScriptIsNotRecorded(t *testing.T) {
	pg := testdb.SetupSharedPostgres(t)
	ctx := context.Background()
	m := migrations.NewMigrator(pg.Pool)

	broken := fstest.MapFS{
		"901_broken.sql": {Data: []byte(`CREATE TABLE broken (;`)},
	}
	require.Error(t, m.Migrate(ctx, broken))

	versions, err := m.AppliedVersions(ctx)
	require.NoError(t, err)
	assert.NotContains(t, versions, "901")
}
