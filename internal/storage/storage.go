// Package storage contains the backend-agnostic persistence contracts used
// by the seeding pipeline, plus a small factory so the rest of the program
// never needs to know which concrete backend it is writing to.
//
// Two backends are provided in subpackages: "postgrest" talks to a
// Supabase-style REST API over the shared HTTP client, and "postgres"
// connects directly with pgx. Importing storage/all (blank import) registers
// both with the factory.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"seeder/internal/httpds"
	"seeder/internal/records"
)

// Store is the minimal persistence surface the seeder needs. All entities
// are create-only; there is no update or delete path in this tool.
type Store interface {
	// BulkInsert writes recs into table in a single round trip. The caller
	// controls batch sizing via Batcher.
	BulkInsert(ctx context.Context, table string, recs []records.Record) error

	// InsertReturning writes one record and returns the stored row including
	// database-generated columns (notably the id, which sale line items need).
	InsertReturning(ctx context.Context, table string, rec records.Record) (records.Record, error)

	// SelectAll reads the named columns of every row in table. The seeder
	// only uses this for the re-fetch-after-insert and fetch-before-sales
	// steps; there is no filtering or pagination.
	SelectAll(ctx context.Context, table string, columns []string) ([]records.Record, error)

	// Close releases backend resources. Safe to call once after use.
	Close()
}

// Config selects and configures a backend.
type Config struct {
	// Kind selects the backend implementation ("postgrest" or "postgres").
	Kind string

	// BaseURL and ServiceKey configure the postgrest backend.
	BaseURL    string
	ServiceKey string

	// HTTP is the shared retrying client used by the postgrest backend.
	HTTP *httpds.Client

	// DSN configures the postgres backend (pgxpool connection string).
	DSN string
}

// Factory constructs a Store from a Config.
type Factory func(ctx context.Context, cfg Config) (Store, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available under the given kind. Backends call
// this from init; importing storage/all wires in all built-in kinds.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := factories[kind]; dup {
		panic(fmt.Sprintf("storage: duplicate backend registration for %q", kind))
	}
	factories[kind] = f
}

// Open constructs the backend selected by cfg.Kind.
func Open(ctx context.Context, cfg Config) (Store, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown backend %q (registered: %v)", cfg.Kind, Kinds())
	}
	return f(ctx, cfg)
}

// Kinds lists the registered backend kinds, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
