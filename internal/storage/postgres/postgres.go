// Package postgres implements the storage.Store interface directly against
// Postgres using pgx v5. It exists for environments where the seeder is
// pointed at a raw DSN instead of a Supabase REST endpoint; bulk writes use
// COPY, which is the cheapest insert path Postgres offers.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"seeder/internal/records"
	"seeder/internal/storage"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Store, error) {
		return New(ctx, Config{DSN: cfg.DSN})
	})
}

// Config holds Postgres store configuration.
type Config struct {
	// DSN is the connection string for pgxpool (postgresql://...).
	DSN string
}

// Store is a pgx-backed implementation of storage.Store.
type Store struct {
	pool *pgxpool.Pool
}

// New constructs a Store and verifies connectivity with a ping, so a bad DSN
// fails the run before any stage starts.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres: DSN is required")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// BulkInsert writes recs into table via COPY. Column order is derived from
// the first record's keys (sorted); every record in the batch must carry the
// same key set, which holds for the seeder because each stage builds its
// records from one template.
func (s *Store) BulkInsert(ctx context.Context, table string, recs []records.Record) error {
	if len(recs) == 0 {
		return nil
	}

	cols := sortedKeys(recs[0])
	rows := make([][]any, 0, len(recs))
	for _, rec := range recs {
		row := make([]any, len(cols))
		for i, c := range cols {
			row[i] = rec[c]
		}
		rows = append(rows, row)
	}

	_, err := s.pool.CopyFrom(ctx, pgx.Identifier{table}, cols, pgx.CopyFromRows(rows))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return fmt.Errorf("postgres: copy into %s: %s (%s)", table, pgErr.Detail, pgErr.SQLState())
		}
		return fmt.Errorf("postgres: copy into %s: %w", table, err)
	}
	return nil
}

// InsertReturning writes one record and returns the stored row, including
// generated columns.
func (s *Store) InsertReturning(ctx context.Context, table string, rec records.Record) (records.Record, error) {
	cols := sortedKeys(rec)

	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = rec[c]
	}

	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		pgx.Identifier{table}.Sanitize(),
		strings.Join(quoteAll(cols), ","),
		strings.Join(placeholders, ","),
	)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: insert into %s: %w", table, err)
	}
	defer rows.Close()

	out, err := collect(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: insert into %s: %w", table, err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("postgres: insert into %s returned %d rows, want 1", table, len(out))
	}
	return out[0], nil
}

// SelectAll reads the named columns of every row in table.
func (s *Store) SelectAll(ctx context.Context, table string, columns []string) ([]records.Record, error) {
	sel := "*"
	if len(columns) > 0 {
		sel = strings.Join(quoteAll(columns), ",")
	}
	sql := fmt.Sprintf("SELECT %s FROM %s", sel, pgx.Identifier{table}.Sanitize())

	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("postgres: select from %s: %w", table, err)
	}
	defer rows.Close()

	out, err := collect(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: select from %s: %w", table, err)
	}
	return out, nil
}

// Close releases the connection pool.
func (s *Store) Close() { s.pool.Close() }

// collect materializes pgx rows into generic records keyed by column name.
func collect(rows pgx.Rows) ([]records.Record, error) {
	fields := rows.FieldDescriptions()
	var out []records.Record
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		rec := make(records.Record, len(fields))
		for i, f := range fields {
			rec[f.Name] = vals[i]
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func sortedKeys(rec records.Record) []string {
	cols := make([]string, 0, len(rec))
	for k := range rec {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

func quoteAll(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = pgx.Identifier{c}.Sanitize()
	}
	return out
}
