package core

import "context"

// Cursor helpers: forward-only, single-pass, consuming traversals over a
// Rows cursor. None are restartable; on an exhausted cursor they yield an
// empty result, not an error.

// EachRow visits every remaining row.
func EachRow(r Rows, fn func(Rows) error) error {
	for r.Next() {
		if err := fn(r); err != nil {
			return err
		}
	}
	return driverErr("read", r.Err())
}

// NextRow maps the next row, or returns nil when the cursor is exhausted.
// It does not advance past that row.
func NextRow[T any](r Rows, fn func(Rows) (T, error)) (*T, error) {
	if !r.Next() {
		return nil, driverErr("read", r.Err())
	}
	v, err := fn(r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CollectRows maps every remaining row 1:1 into a slice, in cursor order.
func CollectRows[T any](r Rows, fn func(Rows) (T, error)) ([]T, error) {
	var out []T
	err := EachRow(r, func(r Rows) error {
		v, err := fn(r)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// CollectRowsFlat maps every remaining row 1:many and flattens the results,
// in cursor order.
func CollectRowsFlat[T any](r Rows, fn func(Rows) ([]T, error)) ([]T, error) {
	var out []T
	err := EachRow(r, func(r Rows) error {
		vs, err := fn(r)
		if err != nil {
			return err
		}
		out = append(out, vs...)
		return nil
	})
	return out, err
}

// ReduceRows left-folds every remaining row into a single accumulator.
func ReduceRows[A any](r Rows, init A, fn func(A, Rows) (A, error)) (A, error) {
	acc := init
	err := EachRow(r, func(r Rows) error {
		next, err := fn(acc, r)
		if err != nil {
			return err
		}
		acc = next
		return nil
	})
	return acc, err
}

// Statement-scoped traversals: each runs the query with a scoped result set
// and consumes its rows. They differ only in how rows are consumed.

// ForEachRow runs the query and visits every row for its side effects.
func ForEachRow(ctx context.Context, conn Conn, q Query, fn func(Rows) error) error {
	return q.Rows(ctx, conn, func(r Rows) error {
		return EachRow(r, fn)
	})
}

// MapRows runs the query and maps every row 1:1 into a slice.
func MapRows[T any](ctx context.Context, conn Conn, q Query, fn func(Rows) (T, error)) ([]T, error) {
	var out []T
	err := q.Rows(ctx, conn, func(r Rows) error {
		var err error
		out, err = CollectRows(r, fn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FlatMapRows runs the query and maps every row 1:many into a flattened
// slice.
func FlatMapRows[T any](ctx context.Context, conn Conn, q Query, fn func(Rows) ([]T, error)) ([]T, error) {
	var out []T
	err := q.Rows(ctx, conn, func(r Rows) error {
		var err error
		out, err = CollectRowsFlat(r, fn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FirstRow runs the query and maps its first row, or returns nil on an empty
// result set. The cursor is not advanced past row 1 even when no row cap is
// configured.
func FirstRow[T any](ctx context.Context, conn Conn, q Query, fn func(Rows) (T, error)) (*T, error) {
	var out *T
	err := q.Rows(ctx, conn, func(r Rows) error {
		var err error
		out, err = NextRow(r, fn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FoldRows runs the query and left-folds its rows into an accumulator.
func FoldRows[A any](ctx context.Context, conn Conn, q Query, init A, fn func(A, Rows) (A, error)) (A, error) {
	acc := init
	err := q.Rows(ctx, conn, func(r Rows) error {
		var err error
		acc, err = ReduceRows(r, acc, fn)
		return err
	})
	return acc, err
}

// Select is a one-shot helper: it lifts a mixed argument list through the
// dynamic converter, runs the query, and maps every row through fn.
func Select[T any](ctx context.Context, conn Conn, sql string, fn func(Rows) (T, error), args ...any) ([]T, error) {
	params, err := BindAll(args...)
	if err != nil {
		return nil, err
	}
	return MapRows(ctx, conn, NewQuery(sql).WithParams(params...), fn)
}
