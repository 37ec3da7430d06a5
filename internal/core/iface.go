package core

import (
	"context"
	"time"
)

// Conn is the minimal connection surface consumed by statement execution.
// The database/sql adapter in this package implements it; tests may supply
// stub implementations.
type Conn interface {
	// Prepare compiles a statement for execution.
	Prepare(ctx context.Context, sql string) (Stmt, error)
	// Close releases the connection.
	Close() error
}

// Stmt is a prepared statement. Parameters are bound to 1-based positions
// before execution knobs (timeout, max rows, fetch size) are applied.
type Stmt interface {
	// SetNull binds a typed NULL at the given 1-based position.
	SetNull(pos int, code TypeCode) error
	// SetValue binds a non-null value at the given 1-based position.
	SetValue(pos int, value any, code TypeCode) error

	// SetQueryTimeout configures the statement timeout. Zero leaves the
	// driver default.
	SetQueryTimeout(d time.Duration)
	// SetMaxRows caps the number of rows a result cursor yields. Zero means
	// unlimited.
	SetMaxRows(n int)
	// SetFetchSize hints how many rows the driver should fetch per round
	// trip. Zero leaves the driver default.
	SetFetchSize(n int)

	// Execute runs the statement and reports its shape through the driver's
	// own signal: a non-nil Rows means the statement produced a result set,
	// otherwise count carries the update count.
	Execute(ctx context.Context) (rows Rows, count int64, err error)
	// Query runs the statement assuming it produces a result set.
	Query(ctx context.Context) (Rows, error)
	// Update runs the statement assuming it produces an update count.
	Update(ctx context.Context) (int64, error)

	// AddBatch queues the currently bound parameters as one batch entry and
	// clears the bindings for the next entry.
	AddBatch() error
	// ExecuteBatch runs all queued entries and returns their update counts
	// in queue order.
	ExecuteBatch(ctx context.Context) ([]int64, error)

	// Close releases the statement.
	Close() error
}

// Rows is a forward-only, single-pass cursor over a result set. Column
// access addresses the current row; positions are 1-based.
type Rows interface {
	// Next advances to the next row, reporting false on exhaustion or error.
	Next() bool
	// Column returns the driver-native value of the current row's column at
	// the given 1-based position.
	Column(pos int) (any, error)
	// ColumnByLabel returns the driver-native value of the current row's
	// column with the given label.
	ColumnByLabel(label string) (any, error)
	// WasNull reports whether the last column read was SQL NULL. It must be
	// consulted after the read: numeric reads return a zero value on NULL,
	// not a sentinel.
	WasNull() bool
	// Columns returns the result set's column labels in positional order.
	Columns() []string
	// Err returns the error, if any, that ended iteration early.
	Err() error
	// Close releases the cursor.
	Close() error
}
