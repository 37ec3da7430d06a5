package core

import (
	"context"
	"time"
)

// QueryEvent describes one executed statement. It is passed to QueryHook
// callbacks for logging, metrics, or custom tracing.
type QueryEvent struct {
	// SQL is the executed statement text
	SQL string
	// Params are the bind values, already masked for logging
	Params []any
	// Duration is how long the execution took
	Duration time.Duration
	// RowsAffected is the update count (for INSERT/UPDATE/DELETE)
	RowsAffected int64
	// BatchSize is the number of parameter sets in a batch execution
	BatchSize int
	// Error is any error that occurred during execution (nil on success)
	Error error
	// Operation is the SQL operation type (SELECT, INSERT, UPDATE, DELETE, UNKNOWN)
	Operation string
}

// QueryHook is a callback invoked after each statement execution.
//
// Example:
//
//	db, _ := sqlbind.Open("postgres", dsn,
//	    sqlbind.WithQueryHook(func(ctx context.Context, e sqlbind.QueryEvent) {
//	        slog.Info("statement", "sql", e.SQL, "duration", e.Duration, "err", e.Error)
//	    }))
type QueryHook func(ctx context.Context, event QueryEvent)

// invokeHook calls the query hook if set.
func (db *DB) invokeHook(ctx context.Context, event QueryEvent) {
	if db.queryHook != nil {
		db.queryHook(ctx, event)
	}
}
