package seed

import (
	"context"
	"fmt"
	"log"

	"seeder/internal/metrics"
	"seeder/internal/records"
	"seeder/internal/storage"
)

// supplierCap limits how many distinct brands become suppliers. Brands are
// taken in source-encounter order, not by frequency or alphabetically.
const supplierCap = 50

// supplierBatchSize is the insert batch size for supplier rows.
const supplierBatchSize = 100

// SupplierLookup maps brand names to persisted supplier ids.
//
// Fallback is the id of the first supplier created in this run; products
// whose brand has no entry in IDs are attributed to it. That mis-attribution
// is a documented property of the tool, not something to silently correct.
type SupplierLookup struct {
	IDs      map[string]int64
	Fallback int64
}

// SeedSuppliers derives one supplier per distinct brand found in rows
// (capped at supplierCap), persists them in batches, then re-fetches the
// suppliers table to build the brand -> id lookup. Contact fields are
// deterministic-format placeholders derived from the brand name.
//
// Any insert failure is fatal for the run.
func (s *Seeder) SeedSuppliers(ctx context.Context, rows []records.Record) (*SupplierLookup, error) {
	brands := uniqueBrands(rows, supplierCap)
	if len(brands) == 0 {
		return &SupplierLookup{IDs: map[string]int64{}}, nil
	}
	log.Printf("seed: creating %d suppliers", len(brands))

	batch, err := storage.NewBatcher(tableSuppliers, supplierBatchSize, func(ctx context.Context, recs []records.Record) error {
		return s.store.BulkInsert(ctx, tableSuppliers, recs)
	})
	if err != nil {
		return nil, err
	}

	for _, brand := range brands {
		rec := records.Record{
			"company_name":   brand,
			"description":    fmt.Sprintf("Supplier for %s perfumes", brand),
			"contact_person": fmt.Sprintf("%s Sales Team", brand),
			"email":          fmt.Sprintf("contact@%s.com", slug(brand)),
			"phone":          s.phone(),
			"address":        fmt.Sprintf("Calle Perfume %d, Madrid, España", s.intBetween(1, 100)),
			"created_by":     s.admin,
		}
		if err := batch.Add(ctx, rec); err != nil {
			return nil, err
		}
	}
	if err := batch.Flush(ctx); err != nil {
		return nil, err
	}
	metrics.RecordRows(job, tableSuppliers, batch.Flushed())

	// Re-fetch to learn the generated ids; the insert path deliberately does
	// not ask the store to echo rows back.
	persisted, err := s.store.SelectAll(ctx, tableSuppliers, []string{"id", "company_name"})
	if err != nil {
		return nil, fmt.Errorf("seed: fetch suppliers: %w", err)
	}

	lookup := &SupplierLookup{IDs: make(map[string]int64, len(persisted))}
	for _, rec := range persisted {
		id, idOK := rec.Int64("id")
		name, nameOK := rec.String("company_name")
		if !idOK || !nameOK {
			return nil, fmt.Errorf("seed: supplier row missing id or company_name: %v", rec)
		}
		lookup.IDs[name] = id
	}
	fallback, ok := lookup.IDs[brands[0]]
	if !ok {
		return nil, fmt.Errorf("seed: supplier %q inserted but not returned by re-fetch", brands[0])
	}
	lookup.Fallback = fallback

	return lookup, nil
}

// uniqueBrands extracts distinct brand values from rows in encounter order,
// stopping at limit. Rows without a recognizable brand column are skipped.
func uniqueBrands(rows []records.Record, limit int) []string {
	seen := make(map[string]bool, limit)
	var out []string
	for _, rec := range rows {
		brand, ok := firstString(rec, brandKeys)
		if !ok || seen[brand] {
			continue
		}
		seen[brand] = true
		out = append(out, brand)
		if len(out) >= limit {
			break
		}
	}
	return out
}
