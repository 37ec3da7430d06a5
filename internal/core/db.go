package core

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/coregx/sqlbind/internal/cache"
	"github.com/coregx/sqlbind/internal/dialects"
	"github.com/coregx/sqlbind/internal/logger"
	"github.com/coregx/sqlbind/internal/tracer"
)

// DB wraps a *sql.DB and hands out Conn values that carry the ambient stack:
// prepared-statement caching, structured logging with masked bind values,
// tracing, and the query hook. Connection pooling itself stays with
// database/sql.
type DB struct {
	sqlDB      *sql.DB
	driverName string
	dialect    dialects.Dialect
	stmtCache  *cache.StmtCache
	logger     logger.Logger
	sanitizer  *logger.Sanitizer
	tracer     tracer.Tracer
	queryHook  QueryHook
	health     *healthChecker
}

// Option is a functional option for configuring DB.
type Option func(*DB)

// WithMaxOpenConns sets the maximum number of open connections.
func WithMaxOpenConns(n int) Option {
	return func(db *DB) {
		db.sqlDB.SetMaxOpenConns(n)
	}
}

// WithMaxIdleConns sets the maximum number of idle connections.
func WithMaxIdleConns(n int) Option {
	return func(db *DB) {
		db.sqlDB.SetMaxIdleConns(n)
	}
}

// WithStmtCacheCapacity sets the prepared statement cache capacity.
func WithStmtCacheCapacity(capacity int) Option {
	return func(db *DB) {
		db.stmtCache = cache.NewWithCapacity(capacity)
	}
}

// WithLogger sets the logger used for statement execution logging.
func WithLogger(log logger.Logger) Option {
	return func(db *DB) {
		db.logger = log
	}
}

// WithTracer sets the tracer used for statement execution spans.
func WithTracer(t tracer.Tracer) Option {
	return func(db *DB) {
		db.tracer = t
	}
}

// WithSlog routes statement execution logging to an slog.Logger.
func WithSlog(log *slog.Logger) Option {
	return func(db *DB) {
		db.logger = logger.NewSlogAdapter(log)
	}
}

// WithOtelTracer routes statement execution spans to an OpenTelemetry
// tracer.
func WithOtelTracer(t trace.Tracer) Option {
	return func(db *DB) {
		db.tracer = tracer.NewOtelTracer(t)
	}
}

// WithQueryHook sets a callback invoked after every statement execution.
func WithQueryHook(hook QueryHook) Option {
	return func(db *DB) {
		db.queryHook = hook
	}
}

// WithSensitiveFields overrides the column names whose bind values are
// masked before logging.
func WithSensitiveFields(fields ...string) Option {
	return func(db *DB) {
		db.sanitizer = logger.NewSanitizer(fields)
	}
}

// WithHealthCheck starts a background ping loop at the given interval.
func WithHealthCheck(interval time.Duration) Option {
	return func(db *DB) {
		db.health = newHealthChecker(db.sqlDB, db.logger, interval)
		db.health.start()
	}
}

// NewDB creates a DB for the given driver and DSN.
func NewDB(driverName, dsn string) (*DB, error) {
	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, driverErr("open", err)
	}
	return WrapDB(sqlDB, driverName), nil
}

// WrapDB wraps an externally managed *sql.DB. The caller keeps ownership of
// pool settings; Close still releases the statement cache.
func WrapDB(sqlDB *sql.DB, driverName string) *DB {
	return &DB{
		sqlDB:      sqlDB,
		driverName: driverName,
		dialect:    dialects.ForDriver(driverName),
		stmtCache:  cache.New(),
		logger:     &logger.NoopLogger{},
		sanitizer:  logger.NewSanitizer(nil),
		tracer:     &tracer.NoopTracer{},
	}
}

// Open creates a DB with options applied.
func Open(driverName, dsn string, opts ...Option) (*DB, error) {
	db, err := NewDB(driverName, dsn)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(db)
	}
	return db, nil
}

// Close releases the statement cache, stops the health checker, and closes
// the underlying pool.
func (db *DB) Close() error {
	if db.health != nil {
		db.health.stopAndWait()
	}
	db.stmtCache.Clear()
	return db.sqlDB.Close()
}

// DriverName returns the driver the DB was opened with.
func (db *DB) DriverName() string { return db.driverName }

// CacheStats returns prepared-statement cache counters.
func (db *DB) CacheStats() cache.Stats { return db.stmtCache.Stats() }

// Conn returns a Conn backed by the pool. Statements prepared through it go
// through the LRU statement cache; its Close is a no-op because the pool
// owns the physical connections.
func (db *DB) Conn() Conn {
	return &sqlConn{db: db}
}

// Tx is a transaction together with the Conn that executes inside it.
type Tx struct {
	tx *sql.Tx
	db *DB
}

// Begin starts a transaction with default options.
func (db *DB) Begin(ctx context.Context) (*Tx, error) {
	return db.BeginTx(ctx, nil)
}

// TxOptions represents transaction options including isolation level.
type TxOptions struct {
	// Isolation level for the transaction (e.g., sql.LevelReadCommitted)
	Isolation sql.IsolationLevel
	// ReadOnly indicates whether the transaction is read-only
	ReadOnly bool
}

// BeginTx starts a transaction with the given options. Commit/rollback
// sequencing stays with the caller; statements executed through the
// transaction's Conn bypass the statement cache.
func (db *DB) BeginTx(ctx context.Context, opts *TxOptions) (*Tx, error) {
	var sqlOpts *sql.TxOptions
	if opts != nil {
		sqlOpts = &sql.TxOptions{Isolation: opts.Isolation, ReadOnly: opts.ReadOnly}
	}
	tx, err := db.sqlDB.BeginTx(ctx, sqlOpts)
	if err != nil {
		return nil, driverErr("begin", err)
	}
	return &Tx{tx: tx, db: db}, nil
}

// Conn returns the Conn that executes statements inside this transaction.
func (tx *Tx) Conn() Conn {
	return &sqlConn{db: tx.db, tx: tx.tx}
}

// Commit commits the transaction.
func (tx *Tx) Commit() error {
	return tx.tx.Commit()
}

// Rollback rolls back the transaction.
func (tx *Tx) Rollback() error {
	return tx.tx.Rollback()
}

// ExecContext executes raw SQL directly on the pool, for schema setup and
// other statements that bypass typed binding.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.sqlDB.ExecContext(ctx, query, args...)
}

// QueryContext executes a raw SQL query directly on the pool.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.sqlDB.QueryContext(ctx, query, args...)
}
