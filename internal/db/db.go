package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AdamBeresnev/rec-tournaments/internal/db/migrations"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the sqlite file at path with foreign keys enforced on every connection.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	slog.Info("database connected", "path", path)
	return db, nil
}

// OpenMemory returns a private in-memory database. It is pinned to a single
// connection because every new sqlite connection would get an empty database.
func OpenMemory() (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory DB: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func dsn(path string) string {
	return path + "?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"
}

func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver instance: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
