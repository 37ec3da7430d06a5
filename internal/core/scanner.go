package core

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ScanRow maps the cursor's current row into a struct of type T. Columns
// match fields by `db:"name"` tag, falling back to the case-insensitive
// field name; unmatched columns are ignored and NULL columns leave the zero
// value (or a nil pointer field). Struct metadata is cached per type.
//
// Its signature fits the MapRows/FirstRow handler shape directly:
//
//	users, err := sqlbind.MapRows(ctx, conn, q, sqlbind.ScanRow[User])
func ScanRow[T any](r Rows) (T, error) {
	var out T
	v := reflect.ValueOf(&out).Elem()
	if v.Kind() != reflect.Struct {
		return out, fmt.Errorf("%w: scan target must be a struct, got %s",
			ErrUnsupportedType, v.Kind())
	}
	info, err := structInfoOf(v.Type())
	if err != nil {
		return out, err
	}

	for i, col := range r.Columns() {
		f, ok := info.fields[strings.ToLower(col)]
		if !ok {
			continue
		}
		raw, err := r.Column(i + 1)
		if err != nil {
			return out, err
		}
		if raw == nil {
			continue
		}
		if err := setField(v.FieldByIndex(f.index), raw, col); err != nil {
			return out, err
		}
	}
	return out, nil
}

// fieldInfo describes how one column lands in a struct.
type fieldInfo struct {
	index []int // field index path, for embedded structs
}

type structInfo struct {
	fields map[string]fieldInfo // keyed by lowercase column name
}

var structInfoCache sync.Map // reflect.Type -> *structInfo

func structInfoOf(typ reflect.Type) (*structInfo, error) {
	if cached, ok := structInfoCache.Load(typ); ok {
		return cached.(*structInfo), nil
	}
	info := &structInfo{fields: make(map[string]fieldInfo)}
	if err := collectFields(typ, nil, info); err != nil {
		return nil, err
	}
	structInfoCache.Store(typ, info)
	return info, nil
}

func collectFields(typ reflect.Type, index []int, info *structInfo) error {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		fieldIndex := append(append([]int{}, index...), i)

		// Embedded structs flatten into the parent's column space.
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := collectFields(field.Type, fieldIndex, info); err != nil {
				return err
			}
			continue
		}

		name := field.Name
		if tag, ok := field.Tag.Lookup("db"); ok {
			if tag == "-" {
				continue
			}
			name = tag
		}
		info.fields[strings.ToLower(name)] = fieldInfo{index: fieldIndex}
	}
	return nil
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
	dateType    = reflect.TypeOf(Date{})
	clockType   = reflect.TypeOf(Clock{})
)

// setField coerces a driver-native value into a struct field, allocating
// pointer fields as needed.
func setField(fv reflect.Value, raw any, col string) error {
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		return setField(fv.Elem(), raw, col)
	}

	mismatch := func() error {
		return &TypeMismatchError{Requested: fv.Type().String(), Column: col, Value: raw}
	}

	switch fv.Type() {
	case timeType:
		t, ok := asTime(raw)
		if !ok {
			return mismatch()
		}
		fv.Set(reflect.ValueOf(t))
		return nil
	case decimalType:
		d, ok := asDecimal(raw)
		if !ok {
			return mismatch()
		}
		fv.Set(reflect.ValueOf(d))
		return nil
	case dateType:
		t, ok := asTime(raw)
		if !ok {
			return mismatch()
		}
		fv.Set(reflect.ValueOf(DateOf(t)))
		return nil
	case clockType:
		c, ok := asClock(raw)
		if !ok {
			return mismatch()
		}
		fv.Set(reflect.ValueOf(c))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		s, ok := asString(raw)
		if !ok {
			return mismatch()
		}
		fv.SetString(s)
	case reflect.Bool:
		b, ok := asBool(raw)
		if !ok {
			return mismatch()
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := asInt64(raw)
		if !ok || fv.OverflowInt(n) {
			return mismatch()
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := asInt64(raw)
		if !ok || n < 0 || fv.OverflowUint(uint64(n)) {
			return mismatch()
		}
		fv.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		f, ok := asFloat64(raw)
		if !ok {
			return mismatch()
		}
		fv.SetFloat(f)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.Uint8 {
			return mismatch()
		}
		b, ok := BytesCol.from(raw)
		if !ok {
			return mismatch()
		}
		fv.SetBytes(b)
	default:
		return mismatch()
	}
	return nil
}
