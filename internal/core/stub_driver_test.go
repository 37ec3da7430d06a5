package core

import (
	"context"
	"time"
)

// In-memory stub implementations of Conn, Stmt, and Rows. They record every
// bind and knob call plus close counts, so tests can assert on binding order
// and on the scoped-release property (statement and cursor closed exactly
// once on every exit path).

type stubConn struct {
	prepared   []*stubStmt
	prepareErr error

	// template for the next prepared statement
	rows    *stubRows
	count   int64
	execErr error
}

func (c *stubConn) Prepare(_ context.Context, sql string) (Stmt, error) {
	if c.prepareErr != nil {
		return nil, c.prepareErr
	}
	s := &stubStmt{sql: sql, rows: c.rows, count: c.count, execErr: c.execErr}
	c.prepared = append(c.prepared, s)
	return s, nil
}

func (c *stubConn) Close() error { return nil }

// bindCall records one SetValue or SetNull invocation.
type bindCall struct {
	pos   int
	value any
	code  TypeCode
	null  bool
}

type stubStmt struct {
	sql   string
	binds []bindCall

	timeout   time.Duration
	maxRows   int
	fetchSize int

	batches [][]bindCall

	rows    *stubRows
	count   int64
	execErr error

	closed int
}

func (s *stubStmt) SetNull(pos int, code TypeCode) error {
	s.binds = append(s.binds, bindCall{pos: pos, code: code, null: true})
	return nil
}

func (s *stubStmt) SetValue(pos int, value any, code TypeCode) error {
	s.binds = append(s.binds, bindCall{pos: pos, value: value, code: code})
	return nil
}

func (s *stubStmt) SetQueryTimeout(d time.Duration) { s.timeout = d }
func (s *stubStmt) SetMaxRows(n int)                { s.maxRows = n }
func (s *stubStmt) SetFetchSize(n int)              { s.fetchSize = n }

func (s *stubStmt) Execute(_ context.Context) (Rows, int64, error) {
	if s.execErr != nil {
		return nil, 0, s.execErr
	}
	if s.rows != nil {
		return s.rows, 0, nil
	}
	return nil, s.count, nil
}

func (s *stubStmt) Query(_ context.Context) (Rows, error) {
	if s.execErr != nil {
		return nil, s.execErr
	}
	return s.rows, nil
}

func (s *stubStmt) Update(_ context.Context) (int64, error) {
	if s.execErr != nil {
		return 0, s.execErr
	}
	return s.count, nil
}

func (s *stubStmt) AddBatch() error {
	entry := make([]bindCall, len(s.binds))
	copy(entry, s.binds)
	s.batches = append(s.batches, entry)
	s.binds = s.binds[:0]
	return nil
}

func (s *stubStmt) ExecuteBatch(_ context.Context) ([]int64, error) {
	if s.execErr != nil {
		return nil, s.execErr
	}
	counts := make([]int64, len(s.batches))
	for i := range counts {
		counts[i] = 1
	}
	return counts, nil
}

func (s *stubStmt) Close() error {
	s.closed++
	return nil
}

// stubRows serves a fixed grid of driver-native values.
type stubRows struct {
	cols     []string
	data     [][]any
	pos      int // 0 = before first row
	lastNull bool
	err      error
	closed   int
}

func newStubRows(cols []string, data ...[]any) *stubRows {
	return &stubRows{cols: cols, data: data}
}

func (r *stubRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *stubRows) Column(pos int) (any, error) {
	if pos < 1 || pos > len(r.cols) {
		return nil, ErrNoColumn
	}
	v := r.data[r.pos-1][pos-1]
	r.lastNull = v == nil
	return v, nil
}

func (r *stubRows) ColumnByLabel(label string) (any, error) {
	for i, c := range r.cols {
		if c == label {
			return r.Column(i + 1)
		}
	}
	return nil, ErrNoColumn
}

func (r *stubRows) WasNull() bool     { return r.lastNull }
func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Err() error        { return r.err }
func (r *stubRows) Close() error      { r.closed++; return nil }

// singleRow builds a one-row cursor positioned before its row.
func singleRow(cols []string, vals ...any) *stubRows {
	return newStubRows(cols, vals)
}
