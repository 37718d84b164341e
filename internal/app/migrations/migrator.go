package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var migrationFS embed.FS

const migrationDir = "sql"

// gooseLogger routes goose output through zerolog
type gooseLogger struct {
	log zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatal().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Migrator manages database migrations
type Migrator struct {
	db *sql.DB
}

// NewMigrator creates a new migrator on top of the pgx pool
func NewMigrator(pool *pgxpool.Pool, logger zerolog.Logger) (*Migrator, error) {
	goose.SetBaseFS(migrationFS)
	goose.SetLogger(gooseLogger{log: logger})
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("failed to set migration dialect: %w", err)
	}
	return &Migrator{db: stdlib.OpenDBFromPool(pool)}, nil
}

// Up applies every pending migration
func (m *Migrator) Up(ctx context.Context) error {
	if err := goose.UpContext(ctx, m.db, migrationDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration
func (m *Migrator) Down(ctx context.Context) error {
	if err := goose.DownContext(ctx, m.db, migrationDir); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// Status logs the state of every migration
func (m *Migrator) Status(ctx context.Context) error {
	return goose.StatusContext(ctx, m.db, migrationDir)
}

// Version returns the current schema version
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	return goose.GetDBVersionContext(ctx, m.db)
}

// Close releases the database/sql wrapper. The pool stays open.
func (m *Migrator) Close() error {
	return m.db.Close()
}
