// Package seed implements the seeding pipeline: deriving suppliers and
// products from the downloaded dataset and generating synthetic customers,
// employees, and sales against the configured store.
//
// All randomness flows through one injectable, seedable source and the clock
// is injectable too, so every generator in this package is reproducible in
// tests without touching global state. The pipeline is strictly sequential;
// each store call completes before the next begins, and the first error
// aborts the run (previously flushed batches stay in place — there is no
// transaction around a run).
package seed

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"time"

	"seeder/internal/metrics"
	"seeder/internal/records"
	"seeder/internal/storage"
)

// Destination tables.
const (
	tableSuppliers = "suppliers"
	tableProducts  = "products"
	tableCustomers = "customers"
	tableEmployees = "employees"
	tableSales     = "sales"
	tableSaleItems = "sales_items"
)

// job is the metrics job label for every stage of a run.
const job = "seeder"

// Options configures a Seeder.
type Options struct {
	// AdminUserID is stamped into created_by on every record. Required.
	AdminUserID string

	// Rand is the random source for all synthetic values. When nil, a
	// time-seeded source is used.
	Rand *rand.Rand

	// Now is the clock used for backdating and expiry dates. When nil,
	// time.Now is used.
	Now func() time.Time

	// Customers, Employees, and Sales are the synthetic record counts.
	Customers int
	Employees int
	Sales     int
}

// Seeder runs the seeding pipeline against a store.
type Seeder struct {
	store storage.Store
	rng   *rand.Rand
	now   func() time.Time
	admin string
	opts  Options
}

// New constructs a Seeder.
func New(store storage.Store, opts Options) *Seeder {
	rng := opts.Rand
	if rng == nil {
		n := time.Now().UnixNano()
		rng = rand.New(rand.NewPCG(uint64(n), uint64(n>>32)))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Seeder{
		store: store,
		rng:   rng,
		now:   now,
		admin: opts.AdminUserID,
		opts:  opts,
	}
}

// Run executes the full pipeline over the given source rows. rows may be
// empty (the dataset download is allowed to fail); in that case the supplier
// and product stages are skipped and only synthetic data is generated.
//
// The first stage error is returned as-is; the caller logs it once and
// terminates with a failure status.
func (s *Seeder) Run(ctx context.Context, rows []records.Record) error {
	var lookup *SupplierLookup

	if len(rows) > 0 {
		var err error
		lookup, err = timed(ctx, "suppliers", func(ctx context.Context) (*SupplierLookup, error) {
			return s.SeedSuppliers(ctx, rows)
		})
		if err != nil {
			return err
		}
	}

	if lookup != nil && len(lookup.IDs) > 0 {
		if _, err := timed(ctx, "products", func(ctx context.Context) (int, error) {
			return s.SeedProducts(ctx, rows, lookup)
		}); err != nil {
			return err
		}
	} else {
		log.Println("seed: dataset empty or no brands resolved, skipping supplier/product import")
	}

	if _, err := timed(ctx, "customers", func(ctx context.Context) (int, error) {
		return s.SeedCustomers(ctx, s.opts.Customers)
	}); err != nil {
		return err
	}
	if _, err := timed(ctx, "employees", func(ctx context.Context) (int, error) {
		return s.SeedEmployees(ctx, s.opts.Employees)
	}); err != nil {
		return err
	}
	if _, err := timed(ctx, "sales", func(ctx context.Context) (int, error) {
		return s.SeedSales(ctx, s.opts.Sales)
	}); err != nil {
		return err
	}
	return nil
}

// timed wraps one pipeline stage with duration/status metrics.
func timed[T any](ctx context.Context, stage string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	out, err := fn(ctx)
	metrics.RecordStage(job, stage, err, time.Since(start))
	return out, err
}

// round2 applies the money rounding rule used for all prices and totals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// intBetween returns a uniform random int in [lo, hi], both inclusive.
func (s *Seeder) intBetween(lo, hi int) int {
	return lo + s.rng.IntN(hi-lo+1)
}

// daysAgo returns now minus n days, as an ISO date string.
func (s *Seeder) daysAgo(n int) string {
	return s.now().AddDate(0, 0, -n).Format("2006-01-02")
}

// daysAhead returns now plus n days, as an ISO date string.
func (s *Seeder) daysAhead(n int) string {
	return s.now().AddDate(0, 0, n).Format("2006-01-02")
}

// phone synthesizes a Spanish mobile number, e.g. "+34 671 482913".
func (s *Seeder) phone() string {
	return fmt.Sprintf("+34 %d %d", s.intBetween(600, 799), s.intBetween(100000, 999999))
}
