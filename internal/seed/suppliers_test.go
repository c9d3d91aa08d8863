package seed

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"seeder/internal/records"
)

func TestSeedSuppliersCapAndOrder(t *testing.T) {
	t.Parallel()

	// 60 distinct brands, with a duplicate sprinkled in early.
	var rows []records.Record
	for i := 0; i < 60; i++ {
		rows = append(rows, sourceRow(fmt.Sprintf("Brand%02d", i), "", nil))
		if i == 5 {
			rows = append(rows, sourceRow("Brand03", "", nil)) // duplicate
		}
	}

	store := newMemStore()
	s := newTestSeeder(store, Options{})

	lookup, err := s.SeedSuppliers(context.Background(), rows)
	if err != nil {
		t.Fatalf("SeedSuppliers: %v", err)
	}

	if got := len(store.rows("suppliers")); got != supplierCap {
		t.Fatalf("suppliers = %d, want cap %d", got, supplierCap)
	}
	if got := len(lookup.IDs); got != supplierCap {
		t.Fatalf("lookup entries = %d, want %d", got, supplierCap)
	}

	// Encounter order: the first persisted supplier is the first source brand.
	if name, _ := store.rows("suppliers")[0].String("company_name"); name != "Brand00" {
		t.Fatalf("first supplier = %q, want Brand00", name)
	}
	if lookup.Fallback != lookup.IDs["Brand00"] {
		t.Fatalf("fallback = %d, want id of first brand %d", lookup.Fallback, lookup.IDs["Brand00"])
	}

	// Brands beyond the cap were dropped.
	if _, ok := lookup.IDs["Brand55"]; ok {
		t.Fatal("brand beyond cap must not become a supplier")
	}
}

func TestSeedSuppliersPlaceholderFields(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	s := newTestSeeder(store, Options{AdminUserID: "owner-7"})

	if _, err := s.SeedSuppliers(context.Background(), []records.Record{sourceRow("Chloé", "", nil)}); err != nil {
		t.Fatalf("SeedSuppliers: %v", err)
	}

	rec := store.rows("suppliers")[0]
	if v, _ := rec.String("description"); v != "Supplier for Chloé perfumes" {
		t.Fatalf("description = %q", v)
	}
	if v, _ := rec.String("contact_person"); v != "Chloé Sales Team" {
		t.Fatalf("contact_person = %q", v)
	}
	// Diacritics are folded out of the synthesized email domain.
	if v, _ := rec.String("email"); v != "contact@chloe.com" {
		t.Fatalf("email = %q", v)
	}
	if v, _ := rec.String("phone"); !strings.HasPrefix(v, "+34 ") {
		t.Fatalf("phone = %q", v)
	}
	if v, _ := rec.String("created_by"); v != "owner-7" {
		t.Fatalf("created_by = %q", v)
	}
}

func TestSeedSuppliersBatchesOfHundred(t *testing.T) {
	t.Parallel()

	var rows []records.Record
	for i := 0; i < 30; i++ {
		rows = append(rows, sourceRow(fmt.Sprintf("B%d", i), "", nil))
	}

	store := newMemStore()
	s := newTestSeeder(store, Options{})
	if _, err := s.SeedSuppliers(context.Background(), rows); err != nil {
		t.Fatalf("SeedSuppliers: %v", err)
	}
	// 30 suppliers fit a single 100-row batch.
	if got := store.bulkCalls["suppliers"]; got != 1 {
		t.Fatalf("bulk insert calls = %d, want 1", got)
	}
}

func TestSeedSuppliersNoBrands(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	s := newTestSeeder(store, Options{})

	lookup, err := s.SeedSuppliers(context.Background(), []records.Record{{"Color": "red"}})
	if err != nil {
		t.Fatalf("SeedSuppliers: %v", err)
	}
	if len(lookup.IDs) != 0 {
		t.Fatalf("lookup = %v, want empty", lookup.IDs)
	}
	if got := len(store.rows("suppliers")); got != 0 {
		t.Fatalf("suppliers = %d, want 0", got)
	}
}

func TestUniqueBrandsAliases(t *testing.T) {
	t.Parallel()

	rows := []records.Record{
		{"brand": "Dior"},
		{"manufacturer": "Gucci"},
		{"Brand": "Dior"}, // duplicate through a different alias
	}
	got := uniqueBrands(rows, 50)
	if len(got) != 2 || got[0] != "Dior" || got[1] != "Gucci" {
		t.Fatalf("uniqueBrands = %v", got)
	}
}
