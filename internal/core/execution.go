package core

import "fmt"

// Execution is the discriminated result of running a statement: exactly one
// of an update count or a row cursor, chosen from the driver's own
// has-result-set signal, never from the SQL text. Accessing the wrong
// variant fails with ErrWrongResultKind.
type Execution struct {
	rows  Rows
	count int64
}

func newUpdateResult(count int64) *Execution {
	return &Execution{count: count}
}

func newQueryResult(rows Rows) *Execution {
	return &Execution{rows: rows}
}

// IsQuery reports whether the statement produced a row cursor.
func (e *Execution) IsQuery() bool { return e.rows != nil }

// UpdateCount returns the number of rows the statement changed. It fails on
// a query result.
func (e *Execution) UpdateCount() (int64, error) {
	if e.rows != nil {
		return 0, fmt.Errorf("%w: statement produced a result set", ErrWrongResultKind)
	}
	return e.count, nil
}

// Cursor returns the statement's row cursor. It fails on an update result.
// The cursor is owned by the execution scope that produced it and is closed
// when that scope exits.
func (e *Execution) Cursor() (Rows, error) {
	if e.rows == nil {
		return nil, fmt.Errorf("%w: statement produced an update count", ErrWrongResultKind)
	}
	return e.rows, nil
}
