// Package csv parses the downloaded dataset CSV into generic records.
//
// The parser is deliberately tolerant of real-world exports: it strips a
// UTF-8 BOM from the first header cell, accepts rows that are narrower or
// wider than the header (soft-fail: the row is skipped and counted), and
// optionally trims surrounding whitespace from every field. Header names are
// preserved exactly as they appear in the file; resolving the dataset's
// uncertain column naming (Brand vs brand vs manufacturer) is the seeding
// layer's job, not the parser's.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"seeder/internal/records"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Options configures the parser. All fields are optional.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing whitespace from each field value.
	TrimSpace bool
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse reads the full CSV stream and returns one record per data row, keyed
// by the header row's column names. Rows whose width does not match the
// header are skipped; the skip count is logged once at the end.
func (p *Parser) Parse(r io.Reader) ([]records.Record, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1 // enforced manually so bad rows soft-fail
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv: empty input, no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	cols := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		cols[i] = strings.TrimSpace(h)
	}

	var (
		out     []records.Record
		skipped int
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}
		if len(row) != len(cols) {
			skipped++
			continue
		}

		rec := make(records.Record, len(cols))
		for i, c := range cols {
			v := row[i]
			if p.opt.TrimSpace {
				v = strings.TrimSpace(v)
			}
			rec[c] = v
		}
		out = append(out, rec)
	}

	if skipped > 0 {
		log.Printf("csv: skipped %d rows with unexpected field count", skipped)
	}
	return out, nil
}
