package seed

import (
	"unicode/utf8"

	"seeder/internal/records"
)

// The dataset's column naming is not stable across versions, so every field
// is resolved through an explicit, ordered list of candidate keys. The first
// present key wins; resolution happens once per record, never as ad hoc
// chained lookups inside the mapping code.
var (
	brandKeys       = []string{"Brand", "brand", "manufacturer"}
	nameKeys        = []string{"Name", "name", "product_name"}
	priceKeys       = []string{"Price", "price"}
	descriptionKeys = []string{"Description", "description"}
)

// firstString returns the first non-empty string among the candidate keys.
func firstString(rec records.Record, keys []string) (string, bool) {
	for _, k := range keys {
		if v, ok := rec.String(k); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// firstFloat returns the first parseable numeric value among the candidate
// keys. An empty or unparseable value falls through to the next candidate.
func firstFloat(rec records.Record, keys []string) (float64, bool) {
	for _, k := range keys {
		if v, ok := rec.Float64(k); ok {
			return v, true
		}
	}
	return 0, false
}

// clamp truncates s to at most n characters. Dataset product names are
// clamped to the destination column width rather than rejected; the cut is
// made on a rune boundary so an accented name never becomes invalid UTF-8.
func clamp(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
