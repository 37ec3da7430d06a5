package core

import (
	"context"
	"fmt"
	"time"
)

// Query is the immutable configuration for one statement's execution: SQL
// text, ordered parameters, and execution knobs. Setters return a modified
// copy, so a base configuration can be shared and reused across executions.
//
// Every execution method independently acquires a prepared statement from
// the supplied Conn, binds parameters, applies the knobs, runs the
// statement, and releases the statement (and any cursor it produced) on all
// exit paths. Release failures are swallowed so they never mask the primary
// result or error.
type Query struct {
	sql       string
	params    []Value
	timeout   time.Duration // 0 = driver default
	maxRows   int           // 0 = unlimited
	fetchSize int           // 0 = driver default
}

// NewQuery creates a statement configuration for the given SQL text. The
// text is passed to the driver verbatim; no parsing or rewriting happens at
// this layer.
func NewQuery(sql string) Query {
	return Query{sql: sql}
}

// SQL returns the statement text.
func (q Query) SQL() string { return q.sql }

// Params returns the ordered parameter list.
func (q Query) Params() []Value { return q.params }

// Timeout returns the configured statement timeout.
func (q Query) Timeout() time.Duration { return q.timeout }

// MaxRows returns the configured row cap.
func (q Query) MaxRows() int { return q.maxRows }

// FetchSize returns the configured fetch-size hint.
func (q Query) FetchSize() int { return q.fetchSize }

// WithParams returns a copy with the parameter list replaced. Parameters
// bind to 1-based positions in the order given.
func (q Query) WithParams(params ...Value) Query {
	q.params = params
	return q
}

// WithTimeout returns a copy with the statement timeout replaced. Zero
// leaves the driver default.
func (q Query) WithTimeout(d time.Duration) Query {
	q.timeout = d
	return q
}

// WithMaxRows returns a copy with the row cap replaced. Zero means
// unlimited.
func (q Query) WithMaxRows(n int) Query {
	q.maxRows = n
	return q
}

// WithFetchSize returns a copy with the fetch-size hint replaced. Zero
// leaves the driver default.
func (q Query) WithFetchSize(n int) Query {
	q.fetchSize = n
	return q
}

// bindParams binds the parameter list to 1-based statement positions. A null
// Value binds a typed NULL using its type code.
func bindParams(stmt Stmt, params []Value) error {
	for i, p := range params {
		var err error
		if p.IsNull() {
			err = stmt.SetNull(i+1, p.Code())
		} else {
			err = stmt.SetValue(i+1, p.Raw(), p.Code())
		}
		if err != nil {
			return driverErr("bind", err)
		}
	}
	return nil
}

// applyKnobs applies timeout, max rows, and fetch size to the prepared
// statement. Each is applied only when strictly greater than zero.
func (q Query) applyKnobs(stmt Stmt) {
	if q.timeout > 0 {
		stmt.SetQueryTimeout(q.timeout)
	}
	if q.maxRows > 0 {
		stmt.SetMaxRows(q.maxRows)
	}
	if q.fetchSize > 0 {
		stmt.SetFetchSize(q.fetchSize)
	}
}

// withStmt scopes a prepared statement around fn: acquire, bind, configure,
// invoke, release. Binding happens before the knobs are applied.
func (q Query) withStmt(ctx context.Context, conn Conn, fn func(Stmt) error) error {
	if q.sql == "" {
		return fmt.Errorf("%w: empty SQL text", ErrInvalidConfig)
	}
	stmt, err := conn.Prepare(ctx, q.sql)
	if err != nil {
		return driverErr("prepare", err)
	}
	defer func() { _ = stmt.Close() }() // best effort release

	if err := bindParams(stmt, q.params); err != nil {
		return err
	}
	q.applyKnobs(stmt)
	return fn(stmt)
}

// Execute runs the statement and hands the discriminated result to fn. The
// result's cursor, if any, is valid only until fn returns.
func (q Query) Execute(ctx context.Context, conn Conn, fn func(*Execution) error) error {
	return q.withStmt(ctx, conn, func(stmt Stmt) error {
		rows, count, err := stmt.Execute(ctx)
		if err != nil {
			return driverErr("execute", err)
		}
		if rows == nil {
			return fn(newUpdateResult(count))
		}
		defer func() { _ = rows.Close() }()
		return fn(newQueryResult(rows))
	})
}

// Rows runs the statement assuming it produces a result set and hands the
// cursor to fn. The cursor is valid only until fn returns.
func (q Query) Rows(ctx context.Context, conn Conn, fn func(Rows) error) error {
	return q.withStmt(ctx, conn, func(stmt Stmt) error {
		rows, err := stmt.Query(ctx)
		if err != nil {
			return driverErr("execute", err)
		}
		defer func() { _ = rows.Close() }()
		return fn(rows)
	})
}

// UpdateCount runs the statement assuming it produces an update count and
// returns it widened to 64 bits.
func (q Query) UpdateCount(ctx context.Context, conn Conn) (int64, error) {
	var count int64
	err := q.withStmt(ctx, conn, func(stmt Stmt) error {
		n, err := stmt.Update(ctx)
		if err != nil {
			return driverErr("execute", err)
		}
		count = n
		return nil
	})
	return count, err
}

// ExecuteBatch runs the statement once per parameter set and returns the
// update counts in order. The builder's own parameter list is ignored; each
// set binds independently.
func (q Query) ExecuteBatch(ctx context.Context, conn Conn, sets [][]Value) ([]int64, error) {
	if q.sql == "" {
		return nil, fmt.Errorf("%w: empty SQL text", ErrInvalidConfig)
	}
	stmt, err := conn.Prepare(ctx, q.sql)
	if err != nil {
		return nil, driverErr("prepare", err)
	}
	defer func() { _ = stmt.Close() }()

	q.applyKnobs(stmt)
	for _, set := range sets {
		if err := bindParams(stmt, set); err != nil {
			return nil, err
		}
		if err := stmt.AddBatch(); err != nil {
			return nil, driverErr("bind", err)
		}
	}
	counts, err := stmt.ExecuteBatch(ctx)
	if err != nil {
		return nil, driverErr("execute", err)
	}
	return counts, nil
}

// Update is a one-shot helper: it lifts a mixed argument list through the
// dynamic converter and runs the statement for its update count. A nil
// argument binds an untyped NULL.
func Update(ctx context.Context, conn Conn, sql string, args ...any) (int64, error) {
	params, err := BindAll(args...)
	if err != nil {
		return 0, err
	}
	return NewQuery(sql).WithParams(params...).UpdateCount(ctx, conn)
}
