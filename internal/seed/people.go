package seed

import (
	"context"
	"fmt"
	"log"

	"seeder/internal/metrics"
	"seeder/internal/records"
	"seeder/internal/storage"
)

// Name pools are small on purpose: 10x10 combinations per role means name
// collisions are expected and acceptable. Per-run uniqueness lives in the
// email's appended index, not in the name.
var (
	customerFirstNames = []string{"Carlos", "Maria", "Jose", "Ana", "Luis", "Carmen", "Juan", "Isabel", "Miguel", "Laura"}
	customerLastNames  = []string{"Garcia", "Rodriguez", "Martinez", "Lopez", "Gonzalez", "Sanchez", "Perez", "Martin", "Fernandez", "Diaz"}

	employeeFirstNames = []string{"Pedro", "Sofia", "David", "Elena", "Javier", "Marta", "Pablo", "Lucia", "Diego", "Clara"}
	employeeLastNames  = []string{"Ruiz", "Moreno", "Jimenez", "Alvarez", "Romero", "Torres", "Ramirez", "Gil", "Serrano", "Molina"}

	customerStreets = []string{"Mayor", "Sol", "Gran Via", "Alcala"}
)

// Batch sizes differ per role; employees are few enough that smaller batches
// keep the progress log readable.
const (
	customerBatchSize = 100
	employeeBatchSize = 50
)

// Birth-date day-offset ranges. Customers span roughly 20-70 years of age;
// employees use a narrower 20-50 band to skew working-age.
const (
	birthOffsetMin         = 7300
	customerBirthOffsetMax = 25550
	employeeBirthOffsetMax = 18250
)

// SeedCustomers generates count synthetic customers and persists them in
// batches. Returns the number of rows written.
func (s *Seeder) SeedCustomers(ctx context.Context, count int) (int, error) {
	log.Printf("seed: creating %d customers", count)
	return s.seedPeople(ctx, tableCustomers, customerBatchSize, count, func(i int) records.Record {
		first := customerFirstNames[s.rng.IntN(len(customerFirstNames))]
		last := customerLastNames[s.rng.IntN(len(customerLastNames))]
		return records.Record{
			"first_name": first,
			"last_name":  last,
			"email":      fmt.Sprintf("%s.%s%d@email.com", slug(first), slug(last), i),
			"phone":      s.phone(),
			"address":    fmt.Sprintf("Calle %s %d, Madrid", customerStreets[s.rng.IntN(len(customerStreets))], s.intBetween(1, 100)),
			"birth_date": s.daysAgo(s.intBetween(birthOffsetMin, customerBirthOffsetMax)),
			"created_by": s.admin,
		}
	})
}

// SeedEmployees generates count synthetic employees and persists them in
// batches. Returns the number of rows written.
func (s *Seeder) SeedEmployees(ctx context.Context, count int) (int, error) {
	log.Printf("seed: creating %d employees", count)
	return s.seedPeople(ctx, tableEmployees, employeeBatchSize, count, func(i int) records.Record {
		first := employeeFirstNames[s.rng.IntN(len(employeeFirstNames))]
		last := employeeLastNames[s.rng.IntN(len(employeeLastNames))]
		return records.Record{
			"first_name": first,
			"last_name":  last,
			"email":      fmt.Sprintf("%s.%s%d@tiendaperfumes.com", slug(first), slug(last), i),
			"phone":      s.phone(),
			"address":    fmt.Sprintf("Calle Trabajo %d, Madrid", s.intBetween(1, 50)),
			"birth_date": s.daysAgo(s.intBetween(birthOffsetMin, employeeBirthOffsetMax)),
			"created_by": s.admin,
		}
	})
}

// seedPeople runs the shared generate-and-batch loop for both roles. build
// receives the 0-based index that keeps emails unique within the run.
func (s *Seeder) seedPeople(ctx context.Context, table string, batchSize, count int, build func(i int) records.Record) (int, error) {
	batch, err := storage.NewBatcher(table, batchSize, func(ctx context.Context, recs []records.Record) error {
		return s.store.BulkInsert(ctx, table, recs)
	})
	if err != nil {
		return 0, err
	}

	for i := 0; i < count; i++ {
		if err := batch.Add(ctx, build(i)); err != nil {
			return int(batch.Flushed()), err
		}
	}
	if err := batch.Flush(ctx); err != nil {
		return int(batch.Flushed()), err
	}

	metrics.RecordRows(job, table, batch.Flushed())
	return int(batch.Flushed()), nil
}
