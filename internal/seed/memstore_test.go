package seed

import (
	"context"
	"fmt"

	"seeder/internal/records"
)

// memStore is an in-memory storage.Store for exercising the seeding logic.
// It assigns serial ids per table the way the real database would.
type memStore struct {
	tables map[string][]records.Record
	nextID map[string]int64

	// failInsertOn, when set, makes every insert into that table fail.
	failInsertOn string

	bulkCalls map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		tables:    map[string][]records.Record{},
		nextID:    map[string]int64{},
		bulkCalls: map[string]int{},
	}
}

func (m *memStore) insert(table string, rec records.Record) records.Record {
	m.nextID[table]++
	stored := rec.Clone()
	stored["id"] = m.nextID[table]
	m.tables[table] = append(m.tables[table], stored)
	return stored
}

func (m *memStore) BulkInsert(_ context.Context, table string, recs []records.Record) error {
	if table == m.failInsertOn {
		return fmt.Errorf("memstore: insert into %s refused", table)
	}
	m.bulkCalls[table]++
	for _, rec := range recs {
		m.insert(table, rec)
	}
	return nil
}

func (m *memStore) InsertReturning(_ context.Context, table string, rec records.Record) (records.Record, error) {
	if table == m.failInsertOn {
		return nil, fmt.Errorf("memstore: insert into %s refused", table)
	}
	return m.insert(table, rec), nil
}

func (m *memStore) SelectAll(_ context.Context, table string, _ []string) ([]records.Record, error) {
	rows := m.tables[table]
	out := make([]records.Record, len(rows))
	for i, rec := range rows {
		out[i] = rec.Clone()
	}
	return out, nil
}

func (m *memStore) Close() {}

func (m *memStore) rows(table string) []records.Record { return m.tables[table] }
