package migrations

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // registers "sqlite"
)

func TestEmbeddedMigrationsMatchAcrossDrivers(t *testing.T) {
	sqliteFiles, err := fs.Glob(embedded, "sqlite/*.sql")
	require.NoError(t, err)
	postgresFiles, err := fs.Glob(embedded, "postgres/*.sql")
	require.NoError(t, err)

	require.NotEmpty(t, sqliteFiles)
	require.Len(t, postgresFiles, len(sqliteFiles), "every migration exists for both drivers")
	for i := range sqliteFiles {
		assert.Equal(t, filepath.Base(sqliteFiles[i]), filepath.Base(postgresFiles[i]))
	}
}

func TestUpSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Up(ctx, db, "sqlite", nil))
	require.NoError(t, Up(ctx, db, "sqlite", nil), "re-running is a no-op")

	version, err := Version(ctx, db, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	_, err = db.ExecContext(ctx, `
		INSERT INTO answer_sheets (name, number_of_questions, answers, created_at, updated_at)
		VALUES ('q', 1, '[]', 0, 0)
	`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		INSERT INTO answer_sheets (name, number_of_questions, answers, created_at, updated_at)
		VALUES ('bad', 0, '[]', 0, 0)
	`)
	assert.Error(t, err, "question count must be positive")
}

func TestUpUnknownDriver(t *testing.T) {
	err := Up(context.Background(), nil, "oracle", nil)
	assert.ErrorContains(t, err, "no migrations")
}
