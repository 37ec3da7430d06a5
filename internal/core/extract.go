package core

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Extractor is the reading capability for one native type: it pulls a typed
// value out of the cursor's current row, by 1-based position or by label.
// On a NULL column the raw read yields the zero value of T; callers that
// need to distinguish NULL use OptionalIndex/OptionalLabel, which consult
// the cursor's was-null flag after the read.
type Extractor[T any] struct {
	name string
	from func(any) (T, bool)
}

// NewExtractor builds an extractor for a custom native type. name appears in
// type-mismatch errors; from coerces a driver-native value and reports
// whether the coercion applied.
func NewExtractor[T any](name string, from func(any) (T, bool)) Extractor[T] {
	return Extractor[T]{name: name, from: from}
}

func (e Extractor[T]) get(r Rows, raw any, addr string) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	v, ok := e.from(raw)
	if !ok {
		return zero, &TypeMismatchError{Requested: e.name, Column: addr, Value: raw}
	}
	return v, nil
}

// Index reads the column at the given 1-based position of the current row.
func (e Extractor[T]) Index(r Rows, pos int) (T, error) {
	raw, err := r.Column(pos)
	if err != nil {
		var zero T
		return zero, err
	}
	return e.get(r, raw, strconv.Itoa(pos))
}

// Label reads the column with the given label of the current row.
func (e Extractor[T]) Label(r Rows, label string) (T, error) {
	raw, err := r.ColumnByLabel(label)
	if err != nil {
		var zero T
		return zero, err
	}
	return e.get(r, raw, label)
}

// OptionalIndex reads the column at pos, returning nil when the driver
// reports it NULL. The was-null flag is checked after the raw read: numeric
// reads return zero on NULL, not a sentinel.
func (e Extractor[T]) OptionalIndex(r Rows, pos int) (*T, error) {
	v, err := e.Index(r, pos)
	if err != nil {
		return nil, err
	}
	if r.WasNull() {
		return nil, nil
	}
	return &v, nil
}

// OptionalLabel reads the column with the given label, returning nil when
// the driver reports it NULL.
func (e Extractor[T]) OptionalLabel(r Rows, label string) (*T, error) {
	v, err := e.Label(r, label)
	if err != nil {
		return nil, err
	}
	if r.WasNull() {
		return nil, nil
	}
	return &v, nil
}

// IndexOr reads the column at pos, substituting def on NULL.
func (e Extractor[T]) IndexOr(r Rows, pos int, def T) (T, error) {
	p, err := e.OptionalIndex(r, pos)
	if err != nil {
		return def, err
	}
	if p == nil {
		return def, nil
	}
	return *p, nil
}

// LabelOr reads the column with the given label, substituting def on NULL.
func (e Extractor[T]) LabelOr(r Rows, label string, def T) (T, error) {
	p, err := e.OptionalLabel(r, label)
	if err != nil {
		return def, err
	}
	if p == nil {
		return def, nil
	}
	return *p, nil
}

// Derive builds an extractor for U by post-processing this extractor's
// values, for conversions like timestamp to calendar date.
func Derive[T, U any](e Extractor[T], name string, conv func(T) U) Extractor[U] {
	return Extractor[U]{name: name, from: func(raw any) (U, bool) {
		v, ok := e.from(raw)
		if !ok {
			var zero U
			return zero, false
		}
		return conv(v), true
	}}
}

// timeLayouts are the textual timestamp forms drivers commonly hand back.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func asString(raw any) (string, bool) {
	switch x := raw.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	case time.Time:
		return x.Format(time.RFC3339Nano), true
	default:
		return "", false
	}
}

func asInt64(raw any) (int64, bool) {
	switch x := raw.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int16:
		return int64(x), true
	case int8:
		return int64(x), true
	case float64:
		n := int64(x)
		return n, float64(n) == x
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		return n, err == nil
	case []byte:
		n, err := strconv.ParseInt(string(x), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// narrowInt coerces through int64 with a range check for the narrower type.
func narrowInt[T int8 | int16 | int32 | int](raw any, min, max int64) (T, bool) {
	n, ok := asInt64(raw)
	if !ok || n < min || n > max {
		return 0, false
	}
	return T(n), true
}

func asFloat64(raw any) (float64, bool) {
	switch x := raw.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(string(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asBool(raw any) (bool, bool) {
	switch x := raw.(type) {
	case bool:
		return x, true
	case int64:
		return x != 0, true
	case string:
		b, err := strconv.ParseBool(x)
		return b, err == nil
	case []byte:
		b, err := strconv.ParseBool(string(x))
		return b, err == nil
	default:
		return false, false
	}
}

func asTime(raw any) (time.Time, bool) {
	switch x := raw.(type) {
	case time.Time:
		return x, true
	case string:
		return parseTime(x)
	case []byte:
		return parseTime(string(x))
	case int64:
		// Unix seconds, for drivers that store timestamps numerically.
		return time.Unix(x, 0).UTC(), true
	default:
		return time.Time{}, false
	}
}

func asDecimal(raw any) (decimal.Decimal, bool) {
	switch x := raw.(type) {
	case string:
		d, err := decimal.NewFromString(x)
		return d, err == nil
	case []byte:
		d, err := decimal.NewFromString(string(x))
		return d, err == nil
	case int64:
		return decimal.NewFromInt(x), true
	case float64:
		return decimal.NewFromFloat(x), true
	default:
		return decimal.Decimal{}, false
	}
}

func asClock(raw any) (Clock, bool) {
	switch x := raw.(type) {
	case time.Time:
		return ClockOf(x), true
	case string:
		return parseClock(x)
	case []byte:
		return parseClock(string(x))
	default:
		return Clock{}, false
	}
}

func parseClock(s string) (Clock, bool) {
	for _, layout := range []string{"15:04:05.999999999", "15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockOf(t), true
		}
	}
	if t, ok := parseTime(s); ok {
		return ClockOf(t), true
	}
	return Clock{}, false
}

// Extractors for the supported native types, plus the derived date/time
// conversions (timestamp to calendar date, wall-clock time, and UTC instant).
var (
	StringCol  = NewExtractor("string", asString)
	BoolCol    = NewExtractor("bool", asBool)
	Int64Col   = NewExtractor("int64", asInt64)
	Float64Col = NewExtractor("float64", asFloat64)
	DecimalCol = NewExtractor("decimal", asDecimal)
	TimeCol    = NewExtractor("time", asTime)
	ClockCol   = NewExtractor("clock", asClock)

	Int8Col = NewExtractor("int8", func(raw any) (int8, bool) {
		return narrowInt[int8](raw, -128, 127)
	})
	Int16Col = NewExtractor("int16", func(raw any) (int16, bool) {
		return narrowInt[int16](raw, -32768, 32767)
	})
	Int32Col = NewExtractor("int32", func(raw any) (int32, bool) {
		return narrowInt[int32](raw, -2147483648, 2147483647)
	})
	IntCol = NewExtractor("int", func(raw any) (int, bool) {
		n, ok := asInt64(raw)
		return int(n), ok
	})
	Float32Col = NewExtractor("float32", func(raw any) (float32, bool) {
		f, ok := asFloat64(raw)
		return float32(f), ok
	})
	BytesCol = NewExtractor("bytes", func(raw any) ([]byte, bool) {
		switch x := raw.(type) {
		case []byte:
			return x, true
		case string:
			return []byte(x), true
		default:
			return nil, false
		}
	})

	DateCol    = Derive(TimeCol, "date", DateOf)
	InstantCol = Derive(TimeCol, "instant", time.Time.UTC)
)
