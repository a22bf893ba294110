package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/disease-harvester/internal/types"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	// One harvester writes sequentially.
	cfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// EnsureTable creates the disease table if it does not exist.
func (db *DB) EnsureTable(ctx context.Context, t Table) error {
	var cols strings.Builder
	for _, f := range t.Fields {
		fmt.Fprintf(&cols, "\n\t\t\t%s TEXT,", f)
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			%s TEXT NOT NULL,
			%s TEXT,%s
			%s TEXT NOT NULL UNIQUE,
			%s TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			%s TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		pgx.Identifier{t.Name}.Sanitize(),
		ColumnPrimaryName, ColumnAltName, cols.String(), ColumnURL, ColumnCreatedAt, ColumnUpdatedAt,
	)

	if _, err := db.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", t.Name, err)
	}
	return nil
}

// UpsertDiseases writes records in a single transaction. On a url conflict every
// non-key column is replaced and updated_at refreshed. Any failure rolls the
// whole batch back.
func (db *DB) UpsertDiseases(ctx context.Context, t Table, records []types.DetailRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := postgresUpsert(t)

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query, t.Row(rec)...)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range records {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to upsert %s: %w", records[i].URL, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

func postgresUpsert(t Table) string {
	cols := t.Columns()
	placeholders := make([]string, len(cols))
	var updates []string
	for i, c := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if c != ColumnURL {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
	}
	updates = append(updates, ColumnUpdatedAt+" = NOW()")

	return fmt.Sprintf(`INSERT INTO %s (%s, %s, %s)
		 VALUES (%s, NOW(), NOW())
		 ON CONFLICT (%s) DO UPDATE SET %s`,
		pgx.Identifier{t.Name}.Sanitize(),
		strings.Join(cols, ", "), ColumnCreatedAt, ColumnUpdatedAt,
		strings.Join(placeholders, ", "),
		ColumnURL, strings.Join(updates, ", "),
	)
}
