package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

//go:embed sql/postgres/*.sql sql/sqlite/*.sql
var migrationFiles embed.FS

const createMigrationTableSQL = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

// target abstracts the driver a migration set is applied through.
type target interface {
	ensureMigrationTableExists(ctx context.Context) error
	isMigrationApplied(ctx context.Context, version string) (bool, error)
	// apply executes the migration and records it in one transaction.
	apply(ctx context.Context, version, content string) error
}

// Migrator applies the embedded PostgreSQL migrations
type Migrator struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *pgxpool.Pool, logger zerolog.Logger) *Migrator {
	return &Migrator{db: db, logger: logger}
}

// Migrate applies every pending migration in filename order
func (m *Migrator) Migrate(ctx context.Context) error {
	return migrate(ctx, m, "sql/postgres", m.logger)
}

func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	if _, err := m.db.Exec(ctx, createMigrationTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1);`
	if err := m.db.QueryRow(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

func (m *Migrator) apply(ctx context.Context, version, content string) error {
	return pgx.BeginFunc(ctx, m.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, content); err != nil {
			return fmt.Errorf("error occurred during SQL migration execution: %w", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`,
			version, time.Now()); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
		return nil
	})
}

// SQLiteMigrator applies the embedded SQLite migrations
type SQLiteMigrator struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteMigrator creates a migrator for an embedded database
func NewSQLiteMigrator(db *sql.DB, logger zerolog.Logger) *SQLiteMigrator {
	return &SQLiteMigrator{db: db, logger: logger}
}

// Migrate applies every pending migration in filename order
func (m *SQLiteMigrator) Migrate(ctx context.Context) error {
	return migrate(ctx, m, "sql/sqlite", m.logger)
}

func (m *SQLiteMigrator) ensureMigrationTableExists(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createMigrationTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

func (m *SQLiteMigrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?);`
	if err := m.db.QueryRowContext(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

func (m *SQLiteMigrator) apply(ctx context.Context, version, content string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, content); err != nil {
		return fmt.Errorf("error occurred during SQL migration execution: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
		version, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return tx.Commit()
}

func migrate(ctx context.Context, t target, dir string, lgr zerolog.Logger) error {
	if err := t.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	entries, err := fs.ReadDir(migrationFiles, dir)
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	for _, name := range sqlFiles {
		// "001_init.sql" => "001"
		version := strings.Split(name, "_")[0]

		applied, err := t.isMigrationApplied(ctx, version)
		if err != nil {
			return err
		}
		if applied {
			lgr.Debug().Str("migration", name).Msg("Migration already applied, skipping")
			continue
		}

		content, err := fs.ReadFile(migrationFiles, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration file: %w", err)
		}
		if err := t.apply(ctx, version, string(content)); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		lgr.Info().Str("migration", name).Msg("Migration file successfully applied")
	}
	return nil
}
