// Package postgrest implements the storage.Store interface against a
// Supabase-style PostgREST API.
//
// Every table maps to /rest/v1/{table}; inserts are POSTed as JSON arrays
// and reads use the `select` query parameter. Authentication uses the
// service-role key in both the apikey and Authorization headers, baked into
// the shared HTTP client as base headers so every request carries them.
// Transient failures are retried by that client; this package adds no retry
// logic of its own.
package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"seeder/internal/httpds"
	"seeder/internal/records"
	"seeder/internal/storage"
)

func init() {
	storage.Register("postgrest", func(_ context.Context, cfg storage.Config) (storage.Store, error) {
		return New(Config{BaseURL: cfg.BaseURL, ServiceKey: cfg.ServiceKey, HTTP: cfg.HTTP})
	})
}

// Config holds PostgREST store configuration.
type Config struct {
	// BaseURL is the project root, e.g. "https://xyz.supabase.co".
	BaseURL string

	// ServiceKey is the privileged service-role key.
	ServiceKey string

	// HTTP is an optional pre-built client. When nil, a client is
	// constructed with the auth headers derived from ServiceKey.
	HTTP *httpds.Client
}

// Store is a PostgREST-backed implementation of storage.Store.
type Store struct {
	http    *httpds.Client
	baseURL string
}

// New constructs a Store.
func New(cfg Config) (*Store, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("postgrest: base URL is required")
	}
	if cfg.ServiceKey == "" {
		return nil, fmt.Errorf("postgrest: service key is required")
	}

	client := cfg.HTTP
	if client == nil {
		client = httpds.NewClient(httpds.Config{BaseHeaders: AuthHeaders(cfg.ServiceKey)})
	}
	return &Store{
		http:    client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// AuthHeaders returns the headers PostgREST expects on every request.
func AuthHeaders(serviceKey string) http.Header {
	hdr := http.Header{}
	hdr.Set("apikey", serviceKey)
	hdr.Set("Authorization", "Bearer "+serviceKey)
	return hdr
}

// BulkInsert POSTs recs as one JSON array. The response body is not needed,
// so Prefer: return=minimal keeps the round trip small.
func (s *Store) BulkInsert(ctx context.Context, table string, recs []records.Record) error {
	if len(recs) == 0 {
		return nil
	}
	body, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("postgrest: encode %s rows: %w", table, err)
	}

	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Set("Prefer", "return=minimal")

	resp, err := s.http.Post(ctx, s.tableURL(table, nil), body, hdr)
	if err != nil {
		return fmt.Errorf("postgrest: insert into %s: %w", table, err)
	}
	defer resp.Body.Close()
	return checkStatus(resp, "insert into "+table)
}

// InsertReturning POSTs a single record with Prefer: return=representation
// and decodes the stored row, including generated columns such as id.
func (s *Store) InsertReturning(ctx context.Context, table string, rec records.Record) (records.Record, error) {
	body, err := json.Marshal([]records.Record{rec})
	if err != nil {
		return nil, fmt.Errorf("postgrest: encode %s row: %w", table, err)
	}

	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Set("Prefer", "return=representation")

	resp, err := s.http.Post(ctx, s.tableURL(table, nil), body, hdr)
	if err != nil {
		return nil, fmt.Errorf("postgrest: insert into %s: %w", table, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "insert into "+table); err != nil {
		return nil, err
	}

	var rows []records.Record
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("postgrest: decode %s response: %w", table, err)
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("postgrest: insert into %s returned %d rows, want 1", table, len(rows))
	}
	return rows[0], nil
}

// SelectAll GETs every row of table, restricted to the given columns.
func (s *Store) SelectAll(ctx context.Context, table string, columns []string) ([]records.Record, error) {
	q := url.Values{}
	sel := "*"
	if len(columns) > 0 {
		sel = strings.Join(columns, ",")
	}
	q.Set("select", sel)

	resp, err := s.http.Get(ctx, s.tableURL(table, q), nil)
	if err != nil {
		return nil, fmt.Errorf("postgrest: select from %s: %w", table, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "select from "+table); err != nil {
		return nil, err
	}

	var rows []records.Record
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("postgrest: decode %s rows: %w", table, err)
	}
	return rows, nil
}

// Close is a no-op; the HTTP client holds no persistent resources.
func (s *Store) Close() {}

func (s *Store) tableURL(table string, q url.Values) string {
	u := s.baseURL + "/rest/v1/" + url.PathEscape(table)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// checkStatus converts a non-2xx response into an error carrying the
// PostgREST error body, which is where constraint violations surface.
func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("postgrest: %s: status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(msg)))
}
