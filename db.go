// Package sqlbind provides a type-safe convenience layer over SQL driver
// APIs: typed parameter binding, typed column extraction, an immutable
// statement builder with scoped statement/cursor lifetimes, and
// prepared-statement caching, structured logging, and OpenTelemetry tracing
// out of the box. Connection pooling, transactions, and SQL semantics stay
// with the underlying driver.
package sqlbind

import (
	"context"

	"github.com/coregx/sqlbind/internal/core"
)

type (
	// DB wraps a *sql.DB with statement caching, logging, and tracing.
	DB = core.DB
	// Option is a functional option for configuring DB.
	Option = core.Option
	// Tx is a transaction together with the Conn executing inside it.
	Tx = core.Tx
	// TxOptions represents transaction options including isolation level.
	TxOptions = core.TxOptions
	// QueryEvent describes one executed statement, passed to QueryHook.
	QueryEvent = core.QueryEvent
	// QueryHook is a callback invoked after each statement execution.
	QueryHook = core.QueryHook

	// Conn is the connection surface consumed by statement execution.
	Conn = core.Conn
	// Stmt is a prepared statement with positional typed bindings.
	Stmt = core.Stmt
	// Rows is a forward-only, single-pass cursor over a result set.
	Rows = core.Rows

	// TypeCode identifies the database-side type of a parameter or column.
	TypeCode = core.TypeCode
	// Value is a typed, nullable parameter ready to bind into a statement.
	Value = core.Value
	// NamedValues are parameter Values keyed by placeholder name.
	NamedValues = core.NamedValues
	// Date is a calendar date without a time-of-day or location.
	Date = core.Date
	// Clock is a wall-clock time of day without a date or location.
	Clock = core.Clock
	// Converter is the binding capability for one native type.
	Converter[T any] = core.Converter[T]
	// Extractor is the reading capability for one native type.
	Extractor[T any] = core.Extractor[T]

	// Query is the immutable configuration for one statement's execution.
	Query = core.Query
	// Execution is the discriminated result of running a statement.
	Execution = core.Execution
	// RowMap is one row captured as a label-to-value map.
	RowMap = core.RowMap

	// TypeMismatchError reports a failed column coercion.
	TypeMismatchError = core.TypeMismatchError
	// DriverError wraps a failure surfaced by the underlying driver.
	DriverError = core.DriverError
)

// Type codes mirroring the driver's type-code space.
const (
	NullType        = core.NullType
	BooleanType     = core.BooleanType
	TinyIntType     = core.TinyIntType
	SmallIntType    = core.SmallIntType
	IntegerType     = core.IntegerType
	BigIntType      = core.BigIntType
	RealType        = core.RealType
	DoubleType      = core.DoubleType
	DecimalType     = core.DecimalType
	VarcharType     = core.VarcharType
	VarbinaryType   = core.VarbinaryType
	DateType        = core.DateType
	TimeType        = core.TimeType
	TimestampType   = core.TimestampType
	TimestampTZType = core.TimestampTZType
)

// Re-export core functions and capability instances.
var (
	Open   = core.Open
	NewDB  = core.NewDB
	WrapDB = core.WrapDB

	WithMaxOpenConns      = core.WithMaxOpenConns
	WithMaxIdleConns      = core.WithMaxIdleConns
	WithStmtCacheCapacity = core.WithStmtCacheCapacity
	WithLogger            = core.WithLogger
	WithSlog              = core.WithSlog
	WithTracer            = core.WithTracer
	WithOtelTracer        = core.WithOtelTracer
	WithQueryHook         = core.WithQueryHook
	WithSensitiveFields   = core.WithSensitiveFields
	WithHealthCheck       = core.WithHealthCheck

	NewQuery = core.NewQuery

	// Sentinel errors.
	ErrUnsupportedType = core.ErrUnsupportedType
	ErrTypeMismatch    = core.ErrTypeMismatch
	ErrWrongResultKind = core.ErrWrongResultKind
	ErrInvalidConfig   = core.ErrInvalidConfig
	ErrNoColumn        = core.ErrNoColumn

	// NullValue is the untyped null parameter.
	NullValue = core.NullValue

	// Value conversion helpers.
	DateOf  = core.DateOf
	ClockOf = core.ClockOf
	Bind    = core.Bind
	BindAll = core.BindAll

	// Converters, one per supported native type.
	StringParam  = core.StringParam
	BoolParam    = core.BoolParam
	Int8Param    = core.Int8Param
	Int16Param   = core.Int16Param
	Int32Param   = core.Int32Param
	Int64Param   = core.Int64Param
	IntParam     = core.IntParam
	Float32Param = core.Float32Param
	Float64Param = core.Float64Param
	BytesParam   = core.BytesParam
	DecimalParam = core.DecimalParam
	TimeParam    = core.TimeParam
	InstantParam = core.InstantParam
	DateParam    = core.DateParam
	ClockParam   = core.ClockParam

	// Extractors, one per supported native type plus the derived date/time
	// conversions.
	StringCol  = core.StringCol
	BoolCol    = core.BoolCol
	Int8Col    = core.Int8Col
	Int16Col   = core.Int16Col
	Int32Col   = core.Int32Col
	Int64Col   = core.Int64Col
	IntCol     = core.IntCol
	Float32Col = core.Float32Col
	Float64Col = core.Float64Col
	BytesCol   = core.BytesCol
	DecimalCol = core.DecimalCol
	TimeCol    = core.TimeCol
	ClockCol   = core.ClockCol
	DateCol    = core.DateCol
	InstantCol = core.InstantCol

	// Row-map scanning.
	ScanRowMap = core.ScanRowMap
)

// NewConverter builds a converter for a custom native type.
func NewConverter[T any](code TypeCode, conv func(T) any) Converter[T] {
	return core.NewConverter(code, conv)
}

// NewExtractor builds an extractor for a custom native type.
func NewExtractor[T any](name string, from func(any) (T, bool)) Extractor[T] {
	return core.NewExtractor(name, from)
}

// Derive builds an extractor for U by post-processing another extractor's
// values.
func Derive[T, U any](e Extractor[T], name string, conv func(T) U) Extractor[U] {
	return core.Derive(e, name, conv)
}

// Update lifts a mixed argument list through the dynamic converter and runs
// the statement for its update count.
func Update(ctx context.Context, conn Conn, sql string, args ...any) (int64, error) {
	return core.Update(ctx, conn, sql, args...)
}

// Select lifts a mixed argument list, runs the query, and maps every row
// through fn.
func Select[T any](ctx context.Context, conn Conn, sql string, fn func(Rows) (T, error), args ...any) ([]T, error) {
	return core.Select(ctx, conn, sql, fn, args...)
}

// ForEachRow runs the query and visits every row for its side effects.
func ForEachRow(ctx context.Context, conn Conn, q Query, fn func(Rows) error) error {
	return core.ForEachRow(ctx, conn, q, fn)
}

// MapRows runs the query and maps every row 1:1 into a slice.
func MapRows[T any](ctx context.Context, conn Conn, q Query, fn func(Rows) (T, error)) ([]T, error) {
	return core.MapRows(ctx, conn, q, fn)
}

// FlatMapRows runs the query and maps every row 1:many into a flattened
// slice.
func FlatMapRows[T any](ctx context.Context, conn Conn, q Query, fn func(Rows) ([]T, error)) ([]T, error) {
	return core.FlatMapRows(ctx, conn, q, fn)
}

// FirstRow runs the query and maps its first row, or returns nil on an
// empty result set.
func FirstRow[T any](ctx context.Context, conn Conn, q Query, fn func(Rows) (T, error)) (*T, error) {
	return core.FirstRow(ctx, conn, q, fn)
}

// FoldRows runs the query and left-folds its rows into an accumulator.
func FoldRows[A any](ctx context.Context, conn Conn, q Query, init A, fn func(A, Rows) (A, error)) (A, error) {
	return core.FoldRows(ctx, conn, q, init, fn)
}

// EachRow visits every remaining row of an open cursor.
func EachRow(r Rows, fn func(Rows) error) error {
	return core.EachRow(r, fn)
}

// NextRow maps the next row of an open cursor, or returns nil on
// exhaustion.
func NextRow[T any](r Rows, fn func(Rows) (T, error)) (*T, error) {
	return core.NextRow(r, fn)
}

// CollectRows maps every remaining row of an open cursor 1:1 into a slice.
func CollectRows[T any](r Rows, fn func(Rows) (T, error)) ([]T, error) {
	return core.CollectRows(r, fn)
}

// CollectRowsFlat maps every remaining row 1:many and flattens the results.
func CollectRowsFlat[T any](r Rows, fn func(Rows) ([]T, error)) ([]T, error) {
	return core.CollectRowsFlat(r, fn)
}

// ReduceRows left-folds every remaining row of an open cursor.
func ReduceRows[A any](r Rows, init A, fn func(A, Rows) (A, error)) (A, error) {
	return core.ReduceRows(r, init, fn)
}

// ScanRow maps the cursor's current row into a struct of type T via db tags.
func ScanRow[T any](r Rows) (T, error) {
	return core.ScanRow[T](r)
}
