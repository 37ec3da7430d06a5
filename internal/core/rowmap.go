package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// RowMap is one row captured as a label-to-value map, for dynamic queries
// where the schema is not known at compile time. Values are driver-native;
// the typed getters apply the same coercions as the column extractors and
// return the zero value on NULL, missing label, or failed coercion.
//
// Example:
//
//	rows, err := sqlbind.MapRows(ctx, conn, q, sqlbind.ScanRowMap)
//	name := rows[0].String("name")
//	if !rows[0].IsNull("email") {
//	    email := rows[0].String("email")
//	}
type RowMap map[string]any

// ScanRowMap captures the cursor's current row as a RowMap. Its signature
// fits the MapRows/FirstRow handler shape directly.
func ScanRowMap(r Rows) (RowMap, error) {
	cols := r.Columns()
	out := make(RowMap, len(cols))
	for i, col := range cols {
		v, err := r.Column(i + 1)
		if err != nil {
			return nil, err
		}
		out[col] = v
	}
	return out, nil
}

// Has reports whether the label exists in the row (regardless of NULL).
func (m RowMap) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// IsNull reports whether the value for the label is NULL or absent.
func (m RowMap) IsNull(key string) bool {
	v, ok := m[key]
	return !ok || v == nil
}

// Keys returns all column labels in the row.
func (m RowMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// String returns the label's value coerced to string, or "" when absent,
// NULL, or not coercible.
func (m RowMap) String(key string) string {
	if v, ok := m[key]; ok && v != nil {
		if s, ok := asString(v); ok {
			return s
		}
	}
	return ""
}

// Int64 returns the label's value coerced to int64, or 0.
func (m RowMap) Int64(key string) int64 {
	if v, ok := m[key]; ok && v != nil {
		if n, ok := asInt64(v); ok {
			return n
		}
	}
	return 0
}

// Float64 returns the label's value coerced to float64, or 0.
func (m RowMap) Float64(key string) float64 {
	if v, ok := m[key]; ok && v != nil {
		if f, ok := asFloat64(v); ok {
			return f
		}
	}
	return 0
}

// Bool returns the label's value coerced to bool, or false.
func (m RowMap) Bool(key string) bool {
	if v, ok := m[key]; ok && v != nil {
		if b, ok := asBool(v); ok {
			return b
		}
	}
	return false
}

// Time returns the label's value coerced to time.Time, or the zero time.
func (m RowMap) Time(key string) time.Time {
	if v, ok := m[key]; ok && v != nil {
		if t, ok := asTime(v); ok {
			return t
		}
	}
	return time.Time{}
}

// Decimal returns the label's value coerced to a decimal, or zero.
func (m RowMap) Decimal(key string) decimal.Decimal {
	if v, ok := m[key]; ok && v != nil {
		if d, ok := asDecimal(v); ok {
			return d
		}
	}
	return decimal.Decimal{}
}
