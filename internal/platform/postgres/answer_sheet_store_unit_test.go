package postgres_test

import (
	"database/sql"
	"testing"

	"github.com/ThanakornSe/AnswerNote/internal/platform/postgres"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostgresAnswerSheetStore(t *testing.T) {
	t.Parallel()

	t.Run("nil db panics", func(t *testing.T) {
		assert.Panics(t, func() { postgres.NewPostgresAnswerSheetStore(nil, nil) })
	})

	t.Run("WithTx returns a distinct store", func(t *testing.T) {
		// sql.Open does not connect, so no server is needed here.
		db, err := sql.Open("pgx", "postgres://localhost:1/none")
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		s := postgres.NewPostgresAnswerSheetStore(db, nil)
		txStore := s.WithTx(&sql.Tx{})
		assert.NotNil(t, txStore)
		assert.NotSame(t, s, txStore)
	})
}
