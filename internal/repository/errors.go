package repository

import (
	"context"
	"database/sql"

	"github.com/Laisky/errors/v2"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"blogCMS/internal/models"
)

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}

// translateError maps driver errors onto domain kinds. Unique violations become
// conflicts, everything else is a storage failure.
func translateError(err error, conflictMsg, storageMsg string) error {
	if isUniqueViolation(err) {
		return models.NewConflictError(conflictMsg, err)
	}
	return models.NewStorageError(storageMsg, err)
}

func exists(ctx context.Context, q Queryer, query string, args ...interface{}) (bool, error) {
	var count int
	if err := q.GetContext(ctx, &count, q.Rebind(query), args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

func count(ctx context.Context, q Queryer, query string, args ...interface{}) (int, error) {
	var n int
	if err := q.GetContext(ctx, &n, q.Rebind(query), args...); err != nil {
		return 0, err
	}
	return n, nil
}

func checkAffected(result sql.Result, notFoundMsg string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return models.NewStorageError("Ошибка при проверке измененных строк", err)
	}

	if rowsAffected == 0 {
		return models.NewNotFoundError(notFoundMsg)
	}

	return nil
}
