package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"seeder/internal/metrics"
	"seeder/internal/records"
)

// Per-sale bounds.
const (
	maxItemsPerSale = 5
	maxQuantity     = 3
)

// saleProgressEvery controls the progress log cadence; sales are inserted
// one round trip at a time because each needs its generated id back.
const saleProgressEvery = 100

// SeedSales generates count synthetic sales, each with 1-5 line items over
// distinct products. The sale row is inserted first to obtain its id, then
// its items in one bulk call.
//
// total_amount is always the exact sum of the stored line-item subtotals.
//
// If no customers, employees, or products have been persisted yet, the stage
// logs and returns without error: there is nothing to reference.
func (s *Seeder) SeedSales(ctx context.Context, count int) (int, error) {
	customers, err := s.store.SelectAll(ctx, tableCustomers, []string{"id"})
	if err != nil {
		return 0, fmt.Errorf("seed: fetch customers: %w", err)
	}
	employees, err := s.store.SelectAll(ctx, tableEmployees, []string{"id"})
	if err != nil {
		return 0, fmt.Errorf("seed: fetch employees: %w", err)
	}
	products, err := s.store.SelectAll(ctx, tableProducts, []string{"id", "price"})
	if err != nil {
		return 0, fmt.Errorf("seed: fetch products: %w", err)
	}

	if len(customers) == 0 || len(employees) == 0 || len(products) == 0 {
		log.Printf("seed: missing data for sales generation (customers=%d employees=%d products=%d), skipping",
			len(customers), len(employees), len(products))
		return 0, nil
	}

	customerIDs, err := rowIDs(tableCustomers, customers)
	if err != nil {
		return 0, err
	}
	employeeIDs, err := rowIDs(tableEmployees, employees)
	if err != nil {
		return 0, err
	}
	catalog, err := catalogItems(products)
	if err != nil {
		return 0, err
	}

	log.Printf("seed: creating %d sales", count)
	var itemsWritten int64
	for i := 0; i < count; i++ {
		items := s.drawItems(catalog)

		var total float64
		for _, it := range items {
			sub, _ := it.Float64("subtotal")
			total += sub
		}

		customerID := customerIDs[s.rng.IntN(len(customerIDs))]
		employeeID := employeeIDs[s.rng.IntN(len(employeeIDs))]

		sale := records.Record{
			"customer_id":  customerID,
			"employee_id":  employeeID,
			"total_amount": round2(total),
			"status":       s.saleStatus(),
			"created_at":   s.now().AddDate(0, 0, -s.intBetween(0, 365)).Format(time.RFC3339),
			"created_by":   s.admin,
		}

		stored, err := s.store.InsertReturning(ctx, tableSales, sale)
		if err != nil {
			return i, fmt.Errorf("seed: insert sale: %w", err)
		}
		saleID, ok := stored.Int64("id")
		if !ok {
			return i, fmt.Errorf("seed: inserted sale has no id: %v", stored)
		}

		for _, it := range items {
			it["sale_id"] = saleID
		}
		if err := s.store.BulkInsert(ctx, tableSaleItems, items); err != nil {
			return i, fmt.Errorf("seed: insert items for sale %d: %w", saleID, err)
		}
		itemsWritten += int64(len(items))

		if (i+1)%saleProgressEvery == 0 {
			log.Printf("seed: created %d sales", i+1)
		}
	}

	metrics.RecordRows(job, tableSales, int64(count))
	metrics.RecordRows(job, tableSaleItems, itemsWritten)
	return count, nil
}

// catalogItem is the slice of a product row the sales generator draws from.
type catalogItem struct {
	id    int64
	price float64
}

// rowIDs extracts the numeric id of every fetched row. An id that does not
// coerce is a schema mismatch (a UUID-keyed table, say) and fails the stage
// up front, rather than writing a zero foreign key and surfacing later as a
// constraint violation.
func rowIDs(table string, rows []records.Record) ([]int64, error) {
	out := make([]int64, len(rows))
	for i, rec := range rows {
		id, ok := rec.Int64("id")
		if !ok {
			return nil, fmt.Errorf("seed: %s row has no numeric id: %v", table, rec)
		}
		out[i] = id
	}
	return out, nil
}

// catalogItems validates the fetched product rows into the id/price pairs
// the generator needs.
func catalogItems(rows []records.Record) ([]catalogItem, error) {
	out := make([]catalogItem, len(rows))
	for i, rec := range rows {
		id, ok := rec.Int64("id")
		if !ok {
			return nil, fmt.Errorf("seed: %s row has no numeric id: %v", tableProducts, rec)
		}
		price, ok := rec.Float64("price")
		if !ok {
			return nil, fmt.Errorf("seed: product %d has no numeric price: %v", id, rec)
		}
		out[i] = catalogItem{id: id, price: price}
	}
	return out, nil
}

// drawItems picks 1-5 distinct products (bounded by availability) without
// replacement and builds their line items. sale_id is filled in by the
// caller once the sale row exists.
func (s *Seeder) drawItems(catalog []catalogItem) []records.Record {
	n := s.intBetween(1, maxItemsPerSale)
	if n > len(catalog) {
		n = len(catalog)
	}

	items := make([]records.Record, 0, n)
	for _, idx := range s.rng.Perm(len(catalog))[:n] {
		p := catalog[idx]
		unitPrice := round2(p.price)
		quantity := s.intBetween(1, maxQuantity)

		items = append(items, records.Record{
			"product_id": p.id,
			"quantity":   quantity,
			"unit_price": unitPrice,
			"subtotal":   round2(float64(quantity) * unitPrice),
		})
	}
	return items
}

// saleStatus draws from the weighted status set: 60% completed, 20% pending,
// 20% cancelled.
func (s *Seeder) saleStatus() string {
	switch s.rng.IntN(5) {
	case 0, 1, 2:
		return "completed"
	case 3:
		return "pending"
	default:
		return "cancelled"
	}
}
