// Package records defines the generic row representation passed between the
// dataset loader, the seeding routines, and the storage backends.
//
// A Record is a loosely typed map because the three producers involved do not
// agree on value shapes: encoding/csv yields strings, encoding/json yields
// float64 for every number, and pgx yields native Go types. The typed getters
// below perform the minimal coercion needed so callers never have to care
// which producer built the record.
package records

import (
	"encoding/json"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
)

// Record is a single logical row keyed by column name.
type Record map[string]any

// String returns the string value for key. ok is false when the key is
// missing, nil, or not representable as a string.
func (r Record) String(key string) (string, bool) {
	v, present := r[key]
	if !present || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	}
	return "", false
}

// Float64 returns the numeric value for key, coercing strings and
// json.Number. ok is false when the key is missing or not numeric.
func (r Record) Float64(key string) (float64, bool) {
	v, present := r[key]
	if !present || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	case pgtype.Numeric:
		f, err := n.Float64Value()
		return f.Float64, err == nil && f.Valid
	}
	return 0, false
}

// Int64 returns the integer value for key. Floats are accepted when they are
// whole; this matters because encoding/json decodes serial ids as float64.
func (r Record) Int64(key string) (int64, bool) {
	v, present := r[key]
	if !present || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
		return 0, false
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	case pgtype.Numeric:
		i, err := n.Int64Value()
		return i.Int64, err == nil && i.Valid
	}
	return 0, false
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
