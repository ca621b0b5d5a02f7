// Package dbtest provides migrated in-memory databases for package tests.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"blogCMS/internal/config"
	"blogCMS/internal/database"
)

// New returns a fresh, fully migrated sqlite database that lives until the test ends.
func New(t testing.TB) *database.DB {
	t.Helper()

	cfg := config.DB{
		Driver: config.DriverSQLite,
		DSN:    "file:" + uuid.New().String() + "?mode=memory&cache=shared",
	}

	db, err := database.Connect(cfg, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, db.RunMigrations())

	t.Cleanup(func() {
		_ = db.CloseDB()
	})

	return db
}
