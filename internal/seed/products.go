package seed

import (
	"context"
	"fmt"
	"log"

	"seeder/internal/metrics"
	"seeder/internal/records"
	"seeder/internal/storage"
)

// Price tier thresholds. Tier is a pure function of price at creation time
// and is never recomputed afterwards.
const (
	tierPremiumMin = 100
	tierMediumMin  = 50
)

// productBatchSize is the insert batch size for product rows.
const productBatchSize = 100

// maxProductNameLen is the destination column width for product names.
const maxProductNameLen = 100

// priceFloor and priceCeil bound the synthesized price for rows whose price
// column is missing or unparseable.
const (
	priceFloor = 20
	priceCeil  = 200
)

// tier buckets a price into the coarse product tier label.
func tier(price float64) string {
	switch {
	case price >= tierPremiumMin:
		return "premium"
	case price >= tierMediumMin:
		return "medium"
	default:
		return "basic"
	}
}

// SeedProducts derives one product per source row and persists them in
// batches, resolving each row's supplier through lookup. Returns the number
// of products written.
func (s *Seeder) SeedProducts(ctx context.Context, rows []records.Record, lookup *SupplierLookup) (int, error) {
	log.Printf("seed: creating products from %d source rows", len(rows))

	batch, err := storage.NewBatcher(tableProducts, productBatchSize, func(ctx context.Context, recs []records.Record) error {
		return s.store.BulkInsert(ctx, tableProducts, recs)
	})
	if err != nil {
		return 0, err
	}

	for i, rec := range rows {
		if err := batch.Add(ctx, s.productFromRow(i, rec, lookup)); err != nil {
			return int(batch.Flushed()), err
		}
	}
	if err := batch.Flush(ctx); err != nil {
		return int(batch.Flushed()), err
	}

	metrics.RecordRows(job, tableProducts, batch.Flushed())
	return int(batch.Flushed()), nil
}

// productFromRow maps one dataset row to a product record. idx is the
// 0-based row index, used for the placeholder name of nameless rows.
func (s *Seeder) productFromRow(idx int, rec records.Record, lookup *SupplierLookup) records.Record {
	brand, ok := firstString(rec, brandKeys)
	if !ok {
		brand = "Unknown"
	}
	name, ok := firstString(rec, nameKeys)
	if !ok {
		name = fmt.Sprintf("Perfume %d", idx)
	}
	price, ok := firstFloat(rec, priceKeys)
	if !ok {
		price = priceFloor + s.rng.Float64()*(priceCeil-priceFloor)
	}
	price = round2(price)

	description, ok := firstString(rec, descriptionKeys)
	if !ok {
		description = fmt.Sprintf("Premium %s fragrance", brand)
	}

	supplierID, ok := lookup.IDs[brand]
	if !ok {
		// Unmatched brands get attributed to the first supplier. Wrong, but
		// never dangling.
		supplierID = lookup.Fallback
	}

	return records.Record{
		"name":           clamp(name, maxProductNameLen),
		"description":    description,
		"brand":          brand,
		"price":          price,
		"tier":           tier(price),
		"stock_quantity": s.intBetween(10, 500),
		"expiry_date":    s.daysAhead(s.intBetween(365, 1095)),
		"supplier_id":    supplierID,
		"created_by":     s.admin,
	}
}
