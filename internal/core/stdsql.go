package core

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/coregx/sqlbind/internal/cache"
	"github.com/coregx/sqlbind/internal/tracer"
)

// sqlConn adapts a *sql.DB pool (or a *sql.Tx) to the Conn interface.
type sqlConn struct {
	db *DB
	tx *sql.Tx // non-nil for transaction-scoped conns
}

// Prepare compiles the statement, going through the LRU statement cache for
// non-transactional conns. Transactions bypass the cache: a cached handle is
// bound to the pool, not to the transaction's connection.
func (c *sqlConn) Prepare(ctx context.Context, sqlText string) (Stmt, error) {
	if c.tx != nil {
		stmt, err := c.tx.PrepareContext(ctx, sqlText)
		if err != nil {
			return nil, err
		}
		return &sqlStmt{db: c.db, sqlText: sqlText, stmt: stmt, owned: true}, nil
	}

	if h, ok := c.db.stmtCache.Acquire(sqlText); ok {
		return &sqlStmt{db: c.db, sqlText: sqlText, stmt: h.Stmt(), handle: h}, nil
	}
	stmt, err := c.db.sqlDB.PrepareContext(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	h := c.db.stmtCache.Insert(sqlText, stmt)
	return &sqlStmt{db: c.db, sqlText: sqlText, stmt: h.Stmt(), handle: h}, nil
}

// Close is a no-op: the pool (or the transaction) owns the physical
// connection.
func (c *sqlConn) Close() error { return nil }

// sqlStmt adapts a *sql.Stmt to the Stmt interface, carrying positional
// bindings and execution knobs until execution time.
type sqlStmt struct {
	db      *DB
	sqlText string
	stmt    *sql.Stmt
	handle  *cache.Handle // non-nil when the statement came from the cache
	owned   bool          // close the statement ourselves (transaction path)

	args      []any
	timeout   time.Duration
	maxRows   int
	fetchSize int
	batch     [][]any
}

// setArg stores a binding for the given 1-based position, growing the
// argument list as needed.
func (s *sqlStmt) setArg(pos int, v any) error {
	if pos < 1 {
		return fmt.Errorf("%w: parameter position %d", ErrInvalidConfig, pos)
	}
	for len(s.args) < pos {
		s.args = append(s.args, nil)
	}
	s.args[pos-1] = v
	return nil
}

// SetNull binds a NULL. database/sql has no typed-NULL binding; the type
// code is carried for drivers that infer parameter types at prepare time.
func (s *sqlStmt) SetNull(pos int, _ TypeCode) error {
	return s.setArg(pos, nil)
}

// SetValue binds a non-null value. Values arrive already normalized to
// driver-bindable representations by the converter layer.
func (s *sqlStmt) SetValue(pos int, value any, _ TypeCode) error {
	return s.setArg(pos, value)
}

// SetQueryTimeout applies the timeout as a context deadline at execution.
func (s *sqlStmt) SetQueryTimeout(d time.Duration) { s.timeout = d }

// SetMaxRows caps how many rows the result cursor yields.
func (s *sqlStmt) SetMaxRows(n int) { s.maxRows = n }

// SetFetchSize records the fetch-size hint. database/sql drivers manage
// their own prefetching, so the hint is accepted but has no effect here.
func (s *sqlStmt) SetFetchSize(n int) { s.fetchSize = n }

// execCtx derives the execution context, applying the statement timeout.
func (s *sqlStmt) execCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return ctx, func() {}
}

// observe starts a tracing span and returns a finish callback that records
// metadata, logs the execution with masked bind values, and invokes the
// query hook.
func (s *sqlStmt) observe(ctx context.Context, op string, batchSize int) (context.Context, func(count int64, err error)) {
	start := time.Now()
	ctx, span := s.db.tracer.StartSpan(ctx, op)
	return ctx, func(count int64, err error) {
		elapsed := time.Since(start)
		masked := s.db.sanitizer.MaskValues(s.sqlText, s.args)
		operation := tracer.DetectOperation(s.sqlText)

		tracer.AddStatementAttributes(span, &tracer.StatementMetadata{
			SQL:          s.sqlText,
			Params:       masked,
			Duration:     elapsed,
			RowsAffected: count,
			BatchSize:    batchSize,
			Error:        err,
			Database:     s.db.driverName,
			Operation:    operation,
		})
		span.End()

		if err != nil {
			s.db.logger.Error("statement execution failed",
				"sql", s.sqlText,
				"params", s.db.sanitizer.FormatValues(masked),
				"duration_ms", elapsed.Milliseconds(),
				"database", s.db.driverName,
				"error", err,
			)
		} else {
			s.db.logger.Info("statement executed",
				"sql", s.sqlText,
				"params", s.db.sanitizer.FormatValues(masked),
				"duration_ms", elapsed.Milliseconds(),
				"rows_affected", count,
				"database", s.db.driverName,
			)
		}

		s.db.invokeHook(ctx, QueryEvent{
			SQL:          s.sqlText,
			Params:       masked,
			Duration:     elapsed,
			RowsAffected: count,
			BatchSize:    batchSize,
			Error:        err,
			Operation:    operation,
		})
	}
}

// Execute resolves the statement shape from driver metadata: a prepared
// statement that reports result columns takes the query path, a zero-column
// statement takes the exec path for its update count. The probe relies on
// drivers stepping statements lazily (true for the bundled sqlite drivers);
// callers that know the shape should use Query or Update directly.
func (s *sqlStmt) Execute(ctx context.Context) (Rows, int64, error) {
	ctx, finish := s.observe(ctx, "sqlbind.stmt.execute", 0)
	ctx, cancel := s.execCtx(ctx)

	probe, err := s.stmt.QueryContext(ctx, s.args...)
	if err != nil {
		cancel()
		finish(0, err)
		return nil, 0, err
	}
	cols, err := probe.Columns()
	if err != nil {
		_ = probe.Close()
		cancel()
		finish(0, err)
		return nil, 0, err
	}
	if len(cols) > 0 {
		finish(0, nil)
		return newSQLRows(probe, cols, s.maxRows, cancel), 0, nil
	}

	// No result columns: run through the exec path for the update count. The
	// unread probe handle is closed without ever stepping the statement.
	_ = probe.Close()
	res, err := s.stmt.ExecContext(ctx, s.args...)
	cancel()
	if err != nil {
		finish(0, err)
		return nil, 0, err
	}
	count, _ := res.RowsAffected()
	finish(count, nil)
	return nil, count, nil
}

// Query runs the statement assuming it produces a result set.
func (s *sqlStmt) Query(ctx context.Context) (Rows, error) {
	ctx, finish := s.observe(ctx, "sqlbind.stmt.query", 0)
	ctx, cancel := s.execCtx(ctx)

	rows, err := s.stmt.QueryContext(ctx, s.args...)
	if err != nil {
		cancel()
		finish(0, err)
		return nil, err
	}
	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		cancel()
		finish(0, err)
		return nil, err
	}
	finish(0, nil)
	return newSQLRows(rows, cols, s.maxRows, cancel), nil
}

// Update runs the statement assuming it produces an update count.
func (s *sqlStmt) Update(ctx context.Context) (int64, error) {
	ctx, finish := s.observe(ctx, "sqlbind.stmt.update", 0)
	ctx, cancel := s.execCtx(ctx)
	defer cancel()

	res, err := s.stmt.ExecContext(ctx, s.args...)
	if err != nil {
		finish(0, err)
		return 0, err
	}
	count, _ := res.RowsAffected()
	finish(count, nil)
	return count, nil
}

// AddBatch queues the current bindings as one batch entry and clears them.
func (s *sqlStmt) AddBatch() error {
	entry := make([]any, len(s.args))
	copy(entry, s.args)
	s.batch = append(s.batch, entry)
	s.args = s.args[:0]
	return nil
}

// ExecuteBatch runs every queued entry in order. database/sql has no batch
// protocol, so entries execute as individual statements on the shared
// prepared handle.
func (s *sqlStmt) ExecuteBatch(ctx context.Context) ([]int64, error) {
	ctx, finish := s.observe(ctx, "sqlbind.stmt.batch", len(s.batch))
	ctx, cancel := s.execCtx(ctx)
	defer cancel()

	counts := make([]int64, 0, len(s.batch))
	var total int64
	for _, entry := range s.batch {
		res, err := s.stmt.ExecContext(ctx, entry...)
		if err != nil {
			finish(total, err)
			return nil, err
		}
		count, _ := res.RowsAffected()
		counts = append(counts, count)
		total += count
	}
	s.batch = nil
	finish(total, nil)
	return counts, nil
}

// Close releases the statement. Cached statements are unpinned rather than
// closed; the cache decides when the shared handle goes away.
func (s *sqlStmt) Close() error {
	if s.handle != nil {
		s.handle.Release()
		return nil
	}
	if s.owned {
		return s.stmt.Close()
	}
	return nil
}

// sqlRows adapts *sql.Rows to the Rows interface. Each row is scanned once
// into driver-native values; positional and label access read from that
// snapshot.
type sqlRows struct {
	rows     *sql.Rows
	cols     []string
	byLabel  map[string]int
	vals     []any
	lastNull bool
	maxRows  int
	seen     int
	scanErr  error
	cancel   context.CancelFunc
}

func newSQLRows(rows *sql.Rows, cols []string, maxRows int, cancel context.CancelFunc) *sqlRows {
	byLabel := make(map[string]int, len(cols))
	for i, c := range cols {
		byLabel[c] = i
	}
	return &sqlRows{
		rows:    rows,
		cols:    cols,
		byLabel: byLabel,
		vals:    make([]any, len(cols)),
		maxRows: maxRows,
		cancel:  cancel,
	}
}

// Next advances the cursor and snapshots the row, honoring the max-rows cap.
func (r *sqlRows) Next() bool {
	if r.scanErr != nil {
		return false
	}
	if r.maxRows > 0 && r.seen >= r.maxRows {
		return false
	}
	if !r.rows.Next() {
		return false
	}
	dest := make([]any, len(r.vals))
	for i := range dest {
		dest[i] = &r.vals[i]
	}
	if err := r.rows.Scan(dest...); err != nil {
		r.scanErr = err
		return false
	}
	r.seen++
	return true
}

// Column returns the current row's value at the 1-based position.
func (r *sqlRows) Column(pos int) (any, error) {
	if pos < 1 || pos > len(r.vals) {
		return nil, fmt.Errorf("%w: position %d of %d", ErrNoColumn, pos, len(r.vals))
	}
	v := r.vals[pos-1]
	r.lastNull = v == nil
	return v, nil
}

// ColumnByLabel returns the current row's value under the given label.
// Lookup is exact first, then case-insensitive.
func (r *sqlRows) ColumnByLabel(label string) (any, error) {
	if i, ok := r.byLabel[label]; ok {
		return r.Column(i + 1)
	}
	for i, c := range r.cols {
		if strings.EqualFold(c, label) {
			return r.Column(i + 1)
		}
	}
	return nil, fmt.Errorf("%w: label %q", ErrNoColumn, label)
}

// WasNull reports whether the last column read was SQL NULL.
func (r *sqlRows) WasNull() bool { return r.lastNull }

// Columns returns the column labels in positional order.
func (r *sqlRows) Columns() []string { return r.cols }

// Err returns the error that ended iteration early, if any.
func (r *sqlRows) Err() error {
	if r.scanErr != nil {
		return r.scanErr
	}
	return r.rows.Err()
}

// Close releases the cursor and any timeout context attached to it.
func (r *sqlRows) Close() error {
	if r.cancel != nil {
		r.cancel()
	}
	return r.rows.Close()
}
