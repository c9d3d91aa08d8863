// Package dataset loads the staged source data for the seeding run.
//
// The Kaggle archive is downloaded and extracted into a staging directory by
// the kaggle subpackage; this package only cares that the directory ends up
// containing at least one CSV file. The exact filename varies between dataset
// versions, so the first *.csv found (lexicographic order) is used.
package dataset

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"seeder/internal/parser/csv"
	"seeder/internal/records"
)

// ErrNoCSV is returned when the staging directory exists but holds no CSV.
var ErrNoCSV = fmt.Errorf("dataset: no CSV files found")

// LoadDir parses the first CSV file found under dir and returns its rows.
// The caller decides whether a load failure is fatal; the seeding pipeline
// degrades to an empty dataset so synthetic-only generation can proceed.
func LoadDir(dir string) ([]records.Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("dataset: read staging dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoCSV, dir)
	}
	sort.Strings(names)

	path := filepath.Join(dir, names[0])
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewParser(csv.Options{TrimSpace: true}).Parse(f)
	if err != nil {
		return nil, fmt.Errorf("dataset: parse %s: %w", path, err)
	}
	log.Printf("dataset: loaded %d rows from %s", len(rows), path)
	return rows, nil
}
