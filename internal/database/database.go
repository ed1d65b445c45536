// Package database persists run progress, collected items and wave history
// in SQLite or PostgreSQL.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Database wraps the SQL connection together with its dialect.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open opens or creates the SQLite database at path.
func Open(path string) (*Database, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig connects to the configured driver and applies migrations.
func OpenWithConfig(cfg Config) (*Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dialect := NewDialect(DialectType(cfg.Driver))

	var dsn string
	switch dialect.(type) {
	case *PostgresDialect:
		dsn = cfg.Postgres.DSN()
	default:
		dir := filepath.Dir(cfg.SQLitePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = cfg.SQLitePath
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, ok := dialect.(*PostgresDialect); ok {
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init statement %q failed: %w", stmt, err)
		}
	}

	d := &Database{db: db, dialect: dialect, qb: NewQueryBuilder(dialect)}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Dialect returns the active SQL dialect.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

func (d *Database) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS progress (
			run_id TEXT PRIMARY KEY,
			level INTEGER NOT NULL DEFAULT 1,
			updated_at TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS inventory (
			run_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, item_id)
		)`,

		`CREATE TABLE IF NOT EXISTS wave_history (
			id ` + d.dialect.AutoIncrementPrimaryKey() + `,
			run_id TEXT NOT NULL,
			level INTEGER NOT NULL,
			boss INTEGER NOT NULL DEFAULT 0,
			attempts INTEGER NOT NULL DEFAULT 0,
			floor_tiles INTEGER NOT NULL DEFAULT 0,
			hostiles_planned INTEGER NOT NULL DEFAULT 0,
			hostiles_placed INTEGER NOT NULL DEFAULT 0,
			collectibles_planned INTEGER NOT NULL DEFAULT 0,
			collectibles_placed INTEGER NOT NULL DEFAULT 0,
			claimed INTEGER NOT NULL DEFAULT 0,
			auto_collected INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			recorded_at TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_wave_history_run_id ON wave_history(run_id)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, strings.TrimSpace(m))
		}
	}

	// Columns added after the first release. They fail with "duplicate
	// column" on databases that already have them.
	columns := []string{
		`ALTER TABLE wave_history ADD COLUMN collectibles_dropped INTEGER NOT NULL DEFAULT 0`,
	}
	for _, m := range columns {
		_, _ = d.db.Exec(m)
	}
	return nil
}

// insertReturningID runs an INSERT and returns the generated id column.
func (d *Database) insertReturningID(query string, args ...any) (int64, error) {
	q := d.qb.BuildWithReturning(query, "id")
	if d.dialect.SupportsLastInsertID() {
		res, err := d.db.Exec(q, args...)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	var id int64
	if err := d.db.QueryRow(q, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
