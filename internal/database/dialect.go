package database

import (
	"strconv"
	"strings"
)

// Dialect hides the SQL differences between SQLite and PostgreSQL that the
// run store runs into: driver name, placeholders, generated ids.
type Dialect interface {
	DriverName() string

	// Placeholder returns the bind marker for a 1-indexed argument.
	Placeholder(position int) string

	// SupportsLastInsertID reports whether Result.LastInsertId works. When it
	// does not, inserts append ReturningClause instead.
	SupportsLastInsertID() bool
	ReturningClause(column string) string

	// InitStatements run once after connecting, before migrations.
	InitStatements() []string

	// AutoIncrementPrimaryKey is the column definition of wave_history.id.
	AutoIncrementPrimaryKey() string
}

// DialectType names a dialect in configuration.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect returns the dialect for t. Anything unrecognised is SQLite.
func NewDialect(t DialectType) Dialect {
	if t == DialectPostgres {
		return &PostgresDialect{}
	}
	return &SQLiteDialect{}
}

// SQLiteDialect drives modernc.org/sqlite.
type SQLiteDialect struct{}

func (*SQLiteDialect) DriverName() string              { return "sqlite" }
func (*SQLiteDialect) Placeholder(int) string          { return "?" }
func (*SQLiteDialect) SupportsLastInsertID() bool      { return true }
func (*SQLiteDialect) ReturningClause(string) string   { return "" }
func (*SQLiteDialect) AutoIncrementPrimaryKey() string { return "INTEGER PRIMARY KEY AUTOINCREMENT" }

// InitStatements switches to WAL so the viewer can read while a host writes,
// and waits on locks rather than failing.
func (*SQLiteDialect) InitStatements() []string {
	return []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}

// PostgresDialect drives github.com/lib/pq.
type PostgresDialect struct{}

func (*PostgresDialect) DriverName() string              { return "postgres" }
func (*PostgresDialect) Placeholder(n int) string        { return "$" + strconv.Itoa(n) }
func (*PostgresDialect) SupportsLastInsertID() bool      { return false }
func (*PostgresDialect) ReturningClause(c string) string { return " RETURNING " + c }
func (*PostgresDialect) InitStatements() []string        { return nil }
func (*PostgresDialect) AutoIncrementPrimaryKey() string { return "SERIAL PRIMARY KEY" }

// QueryBuilder rewrites queries written with "?" markers for its dialect.
type QueryBuilder struct {
	dialect Dialect
}

func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build numbers the "?" markers for PostgreSQL and leaves SQLite queries
// untouched:
//
//	SELECT level FROM progress WHERE run_id = ?   (sqlite)
//	SELECT level FROM progress WHERE run_id = $1  (postgres)
func (qb *QueryBuilder) Build(query string) string {
	if qb.dialect.Placeholder(1) == "?" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for {
		before, after, found := strings.Cut(query, "?")
		b.WriteString(before)
		if !found {
			return b.String()
		}
		n++
		b.WriteString(qb.dialect.Placeholder(n))
		query = after
	}
}

// BuildWithReturning is Build plus a RETURNING clause for dialects without
// LastInsertId.
func (qb *QueryBuilder) BuildWithReturning(query, column string) string {
	q := qb.Build(query)
	if !qb.dialect.SupportsLastInsertID() {
		q += qb.dialect.ReturningClause(column)
	}
	return q
}
