package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Value is a typed, nullable parameter ready to bind into a statement slot.
// A null Value still carries a concrete TypeCode so the driver can bind a
// typed NULL. Values are consumed once at bind time and not retained.
type Value struct {
	raw  any
	code TypeCode
	null bool
}

// NullValue is the untyped null parameter. It binds as a NULL with no
// specific type, for drivers that accept one.
var NullValue = Value{code: NullType, null: true}

// Raw returns the native value carried by the parameter. Consumers ignore it
// when IsNull reports true.
func (v Value) Raw() any { return v.raw }

// Code returns the database type code of the parameter.
func (v Value) Code() TypeCode { return v.code }

// IsNull reports whether the parameter binds as SQL NULL.
func (v Value) IsNull() bool { return v.null }

// String renders the value for logs and error messages.
func (v Value) String() string {
	if v.null {
		return "NULL(" + v.code.String() + ")"
	}
	return fmt.Sprintf("%v", v.raw)
}

// Date is a calendar date without a time-of-day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns the date at midnight in the given location.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Clock is a wall-clock time of day without a date or location.
type Clock struct {
	Hour int
	Min  int
	Sec  int
	Nsec int
}

// ClockOf returns the wall-clock time of t in t's location.
func ClockOf(t time.Time) Clock {
	h, m, s := t.Clock()
	return Clock{Hour: h, Min: m, Sec: s, Nsec: t.Nanosecond()}
}

func (c Clock) String() string {
	if c.Nsec == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Min, c.Sec)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%09d", c.Hour, c.Min, c.Sec, c.Nsec)
}

// Converter is the binding capability for one native type: it produces a
// typed Value from a T, a typed NULL for an absent T, and lifts itself over
// pointers, slices, and string-keyed maps. Conversions are total over T.
type Converter[T any] struct {
	code TypeCode
	conv func(T) any
}

// NewConverter builds a converter for a custom native type. conv normalizes
// the native value to a driver-bindable representation; nil conv binds the
// value as-is.
func NewConverter[T any](code TypeCode, conv func(T) any) Converter[T] {
	return Converter[T]{code: code, conv: conv}
}

// Code returns the database type code this converter binds as.
func (c Converter[T]) Code() TypeCode { return c.code }

// Bind converts a native value to a parameter Value.
func (c Converter[T]) Bind(v T) Value {
	raw := any(v)
	if c.conv != nil {
		raw = c.conv(v)
	}
	return Value{raw: raw, code: c.code}
}

// Null returns the null parameter typed with this converter's code.
func (c Converter[T]) Null() Value {
	return Value{code: c.code, null: true}
}

// BindPtr converts an optional native value: nil binds a typed NULL.
func (c Converter[T]) BindPtr(p *T) Value {
	if p == nil {
		return c.Null()
	}
	return c.Bind(*p)
}

// BindSlice lifts the conversion element-wise.
func (c Converter[T]) BindSlice(vs []T) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = c.Bind(v)
	}
	return out
}

// BindMap lifts the conversion value-wise, preserving keys.
func (c Converter[T]) BindMap(m map[string]T) map[string]Value {
	out := make(map[string]Value, len(m))
	for k, v := range m {
		out[k] = c.Bind(v)
	}
	return out
}

// Converters for the supported native types. Each is selected statically at
// the call site; the dynamic Bind function below exists only for callers
// that must accept heterogeneous values.
var (
	StringParam  = NewConverter[string](VarcharType, nil)
	BoolParam    = NewConverter[bool](BooleanType, nil)
	Int8Param    = NewConverter[int8](TinyIntType, nil)
	Int16Param   = NewConverter[int16](SmallIntType, nil)
	Int32Param   = NewConverter[int32](IntegerType, nil)
	Int64Param   = NewConverter[int64](BigIntType, nil)
	IntParam     = NewConverter(BigIntType, func(v int) any { return int64(v) })
	Float32Param = NewConverter[float32](RealType, nil)
	Float64Param = NewConverter[float64](DoubleType, nil)
	BytesParam   = NewConverter[[]byte](VarbinaryType, nil)

	// DecimalParam binds arbitrary-precision decimals as their canonical
	// string form so no precision is lost in the driver.
	DecimalParam = NewConverter(DecimalType, func(v decimal.Decimal) any { return v.String() })

	// TimeParam binds a point in time as a timestamp in its own location.
	TimeParam = NewConverter[time.Time](TimestampType, nil)
	// InstantParam binds a point in time normalized to UTC.
	InstantParam = NewConverter(TimestampTZType, func(v time.Time) any { return v.UTC() })
	// DateParam binds a calendar date as midnight UTC.
	DateParam = NewConverter(DateType, func(v Date) any { return v.Time(time.UTC) })
	// ClockParam binds a wall-clock time of day in HH:MM:SS form.
	ClockParam = NewConverter(TimeType, func(v Clock) any { return v.String() })
)

// Bind converts an arbitrary runtime value to a parameter Value by
// dispatching to the matching static converter. A nil value, or a nil
// pointer of a supported type, binds as a (typed) NULL rather than failing.
// Values outside the supported set fail with ErrUnsupportedType.
func Bind(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return NullValue, nil
	case Value:
		return x, nil
	case string:
		return StringParam.Bind(x), nil
	case *string:
		return StringParam.BindPtr(x), nil
	case bool:
		return BoolParam.Bind(x), nil
	case *bool:
		return BoolParam.BindPtr(x), nil
	case int:
		return IntParam.Bind(x), nil
	case *int:
		return IntParam.BindPtr(x), nil
	case int8:
		return Int8Param.Bind(x), nil
	case *int8:
		return Int8Param.BindPtr(x), nil
	case int16:
		return Int16Param.Bind(x), nil
	case *int16:
		return Int16Param.BindPtr(x), nil
	case int32:
		return Int32Param.Bind(x), nil
	case *int32:
		return Int32Param.BindPtr(x), nil
	case int64:
		return Int64Param.Bind(x), nil
	case *int64:
		return Int64Param.BindPtr(x), nil
	case float32:
		return Float32Param.Bind(x), nil
	case *float32:
		return Float32Param.BindPtr(x), nil
	case float64:
		return Float64Param.Bind(x), nil
	case *float64:
		return Float64Param.BindPtr(x), nil
	case []byte:
		if x == nil {
			return BytesParam.Null(), nil
		}
		return BytesParam.Bind(x), nil
	case decimal.Decimal:
		return DecimalParam.Bind(x), nil
	case *decimal.Decimal:
		return DecimalParam.BindPtr(x), nil
	case time.Time:
		return TimeParam.Bind(x), nil
	case *time.Time:
		return TimeParam.BindPtr(x), nil
	case Date:
		return DateParam.Bind(x), nil
	case *Date:
		return DateParam.BindPtr(x), nil
	case Clock:
		return ClockParam.Bind(x), nil
	case *Clock:
		return ClockParam.BindPtr(x), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

// BindAll lifts Bind over an argument list built from mixed literal types.
func BindAll(args ...any) ([]Value, error) {
	out := make([]Value, len(args))
	for i, a := range args {
		v, err := Bind(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}
