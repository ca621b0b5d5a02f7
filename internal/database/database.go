package database

import (
	"context"
	"database/sql"
	"embed"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"blogCMS/internal/config"
)

//go:embed migrations
var migrationsFS embed.FS

type DB struct {
	*sqlx.DB
	driver string
	dsn    string
	log    zerolog.Logger
}

// Connect opens and pings the configured database. Migrations are applied separately.
func Connect(cfg config.DB, log zerolog.Logger) (*DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = config.DriverPostgres
	}
	if driver != config.DriverPostgres && driver != config.DriverSQLite {
		return nil, errors.Errorf("неподдерживаемый драйвер БД: %s", driver)
	}

	dsn := cfg.ConnString()
	log = log.With().Str("component", "database").Logger()
	log.Info().Str("driver", driver).Str("dbname", cfg.DbNAME).Msg("Подключаемся к БД")

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "не удалось подключиться к БД")
	}

	if driver == config.DriverSQLite {
		// sqlite serializes writers, one connection keeps transactions deadlock-free
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	return &DB{DB: db, driver: driver, dsn: dsn, log: log}, nil
}

func (db *DB) Driver() string {
	return db.driver
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

// newMigrator uses its own handle so that closing the migrator leaves the pool intact.
func (db *DB) newMigrator() (*migrate.Migrate, func(), error) {
	source, err := iofs.New(migrationsFS, "migrations/"+db.driver)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка при чтении миграций")
	}

	conn, err := sql.Open(db.driver, db.dsn)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка при открытии подключения для миграций")
	}

	var driver migratedb.Driver
	switch db.driver {
	case config.DriverSQLite:
		driver, err = sqlite3.WithInstance(conn, &sqlite3.Config{})
	default:
		driver, err = postgres.WithInstance(conn, &postgres.Config{})
	}
	if err != nil {
		_ = conn.Close()
		return nil, nil, errors.Wrap(err, "ошибка при создании драйвера миграций")
	}

	m, err := migrate.NewWithInstance("iofs", source, db.driver, driver)
	if err != nil {
		_ = conn.Close()
		return nil, nil, errors.Wrap(err, "ошибка при создании мигратора")
	}

	closeFn := func() {
		_, _ = m.Close()
		_ = conn.Close()
	}

	return m, closeFn, nil
}

// RunMigrations applies every pending migration. Being up to date is not an error.
func (db *DB) RunMigrations() error {
	m, closeFn, err := db.newMigrator()
	if err != nil {
		return err
	}
	defer closeFn()

	db.log.Info().Msg("Применяем миграции")

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "ошибка при выполнении миграций")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return errors.Wrap(err, "ошибка при чтении версии схемы")
	}

	db.log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Миграции успешно применены")
	return nil
}

// RollbackMigrations reverts every applied migration.
func (db *DB) RollbackMigrations() error {
	m, closeFn, err := db.newMigrator()
	if err != nil {
		return err
	}
	defer closeFn()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "ошибка при откате миграций")
	}

	db.log.Info().Msg("Миграции откачены")
	return nil
}

func (db *DB) HealthCheck(ctx context.Context) error {
	if db == nil || db.DB == nil {
		return errors.New("подключение к БД не инициализировано")
	}

	return db.PingContext(ctx)
}
