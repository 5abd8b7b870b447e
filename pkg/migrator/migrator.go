package migrator

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Migrator applies goose SQL migrations on service startup.
type Migrator struct {
	db   *sql.DB
	path string
}

// New creates a migrator for the given migrations directory.
func New(db *sql.DB, path string) (*Migrator, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("migrator: set dialect: %w", err)
	}
	return &Migrator{db: db, path: path}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	if err := goose.UpContext(ctx, m.db, m.path); err != nil {
		return fmt.Errorf("migrator: apply migrations: %w", err)
	}
	return nil
}

// Version returns the current migration version.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return 0, fmt.Errorf("migrator: get version: %w", err)
	}
	return version, nil
}
