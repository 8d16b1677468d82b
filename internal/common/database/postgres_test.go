package database_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/xoxo-backend/internal/common/database"
)

func TestIsPgError(t *testing.T) {
	t.Parallel()

	t.Run("it should match the code through wrapping", func(t *testing.T) {
		err := fmt.Errorf("insert: %w", &pq.Error{Code: database.UniqueViolation})
		require.True(t, database.IsPgError(err, database.UniqueViolation))
		require.False(t, database.IsPgError(err, database.ForeignKeyViolation))
	})

	t.Run("it should ignore errors from elsewhere", func(t *testing.T) {
		require.False(t, database.IsPgError(errors.New("boom"), database.UniqueViolation))
		require.False(t, database.IsPgError(nil, database.UniqueViolation))
	})
}

func TestWithTx(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("it should commit when fn succeeds", func(t *testing.T) {
		raw, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer raw.Close()
		db := sqlx.NewDb(raw, "postgres")

		mock.ExpectBegin()
		mock.ExpectExec("pg_advisory_xact_lock").
			WithArgs("a:b").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err = database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
			return database.AdvisoryXactLock(ctx, tx, "a:b")
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("it should roll back and return the fn error", func(t *testing.T) {
		raw, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer raw.Close()
		db := sqlx.NewDb(raw, "postgres")

		failure := errors.New("nope")
		mock.ExpectBegin()
		mock.ExpectRollback()

		err = database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
			return failure
		})
		require.ErrorIs(t, err, failure)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
