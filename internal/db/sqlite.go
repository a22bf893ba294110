package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// register the pure-Go sqlite driver
	_ "modernc.org/sqlite"

	"github.com/jonathan/disease-harvester/internal/types"
)

// SQLite is a file-backed store for local harvests.
type SQLite struct {
	Pool *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path. ":memory:" is
// accepted for tests.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := path
	if path != ":memory:" {
		// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	}

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}

	// a single connection keeps ":memory:" databases alive and serializes writers
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to ping sqlite %s: %w", path, err)
	}

	return &SQLite{Pool: pool}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	if s == nil || s.Pool == nil {
		return nil
	}
	return s.Pool.Close()
}

// EnsureTable creates the disease table if it does not exist.
func (s *SQLite) EnsureTable(ctx context.Context, t Table) error {
	var cols strings.Builder
	for _, f := range t.Fields {
		fmt.Fprintf(&cols, "\n\t%s TEXT,", f)
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	%s TEXT NOT NULL,
	%s TEXT,%s
	%s TEXT NOT NULL UNIQUE,
	%s TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	%s TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);`, t.Name, ColumnPrimaryName, ColumnAltName, cols.String(), ColumnURL, ColumnCreatedAt, ColumnUpdatedAt)

	if _, err := s.Pool.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", t.Name, err)
	}
	return nil
}

// UpsertDiseases writes records in one transaction, replacing non-key columns
// on url conflicts. Any failure rolls the whole batch back.
func (s *SQLite) UpsertDiseases(ctx context.Context, t Table, records []types.DetailRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.Pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, sqliteUpsert(t))
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, t.Row(rec)...); err != nil {
			return fmt.Errorf("failed to upsert %s: %w", rec.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

func sqliteUpsert(t Table) string {
	cols := t.Columns()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	var updates []string
	for _, c := range cols {
		if c != ColumnURL {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", c, c))
		}
	}
	updates = append(updates, ColumnUpdatedAt+" = CURRENT_TIMESTAMP")

	return fmt.Sprintf(`INSERT INTO %s (%s, %s, %s)
VALUES (%s, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
ON CONFLICT(%s) DO UPDATE SET %s;`,
		t.Name, strings.Join(cols, ", "), ColumnCreatedAt, ColumnUpdatedAt,
		placeholders, ColumnURL, strings.Join(updates, ", "))
}
