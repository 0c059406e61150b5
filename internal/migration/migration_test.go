package migration

import (
	"testing"

	"github.com/smallbiznis/salesops/pkg/db"
	"github.com/stretchr/testify/require"
)

func TestMigrateSQLiteAutoMigrates(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)

	require.NoError(t, Migrate(conn, db.TypeSQLite))
	for _, table := range []string{"managers", "team_leaders", "dsrs", "sales"} {
		require.True(t, conn.Migrator().HasTable(table), table)
	}

	require.NoError(t, Migrate(conn, db.TypeSQLite))
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	entries, err := embeddedMigrations.ReadDir(migrationsDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
