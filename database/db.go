package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DB wraps a connection pool with the dialect its schema was created for.
// Queries use $N placeholders, which both drivers accept.
type DB struct {
	*sql.DB
	Dialect Dialect
}

var schemas = map[Dialect][]string{
	Postgres: {
		`CREATE TABLE IF NOT EXISTS analysis_results (
			id         BIGSERIAL PRIMARY KEY,
			content    TEXT,
			url        TEXT,
			verdict    TEXT,
			score      INTEGER,
			result     JSONB,
			created_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS domain_stats (
			domain           TEXT PRIMARY KEY,
			total_analyses   INTEGER NOT NULL DEFAULT 0,
			sum_scores       INTEGER NOT NULL DEFAULT 0,
			last_analyzed_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS alerts (
			seq        BIGSERIAL PRIMARY KEY,
			id         TEXT UNIQUE NOT NULL,
			payload    TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,
	},
	SQLite: {
		`CREATE TABLE IF NOT EXISTS analysis_results (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			content    TEXT,
			url        TEXT,
			verdict    TEXT,
			score      INTEGER,
			result     TEXT,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS domain_stats (
			domain           TEXT PRIMARY KEY,
			total_analyses   INTEGER NOT NULL DEFAULT 0,
			sum_scores       INTEGER NOT NULL DEFAULT 0,
			last_analyzed_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS alerts (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT UNIQUE NOT NULL,
			payload    TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
	},
}

// Open connects, pings and creates missing tables.
func Open(ctx context.Context, dialect Dialect, dsn string) (*DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty %s DSN", dialect)
	}
	if dialect == SQLite && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	conn, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == SQLite {
		// one writer; also keeps :memory: databases on a single connection
		conn.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s unreachable: %w", dialect, err)
	}

	db := &DB{DB: conn, Dialect: dialect}
	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	log.Printf("[DB] ✓ Connected to %s", dialect)
	return db, nil
}

func (db *DB) migrate(ctx context.Context) error {
	stmts, ok := schemas[db.Dialect]
	if !ok {
		return fmt.Errorf("unsupported dialect %q", db.Dialect)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
