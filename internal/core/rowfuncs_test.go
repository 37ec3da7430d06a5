package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeRowConn() (*stubConn, *stubRows) {
	rows := newStubRows([]string{"id", "name"},
		[]any{int64(1), "alice"},
		[]any{int64(2), "bob"},
		[]any{int64(3), "carol"},
	)
	return &stubConn{rows: rows}, rows
}

func scanName(r Rows) (string, error) {
	return StringCol.Label(r, "name")
}

func TestForEachRow(t *testing.T) {
	conn, rows := threeRowConn()
	var seen []int64

	err := ForEachRow(context.Background(), conn, NewQuery("SELECT id, name FROM t"), func(r Rows) error {
		id, err := Int64Col.Index(r, 1)
		if err != nil {
			return err
		}
		seen = append(seen, id)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, seen)
	assert.Equal(t, 1, rows.closed)
	assert.Equal(t, 1, conn.prepared[0].closed)
}

func TestForEachRowStopsOnHandlerError(t *testing.T) {
	conn, rows := threeRowConn()
	boom := errors.New("stop")
	visits := 0

	err := ForEachRow(context.Background(), conn, NewQuery("SELECT id FROM t"), func(Rows) error {
		visits++
		if visits == 2 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, visits)
	assert.Equal(t, 1, rows.closed)
}

func TestMapRows(t *testing.T) {
	conn, _ := threeRowConn()

	names, err := MapRows(context.Background(), conn, NewQuery("SELECT id, name FROM t"), scanName)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, names)
}

func TestFlatMapRows(t *testing.T) {
	conn, _ := threeRowConn()

	// one row expands to two elements, preserving cursor order
	out, err := FlatMapRows(context.Background(), conn, NewQuery("SELECT id, name FROM t"), func(r Rows) ([]string, error) {
		name, err := scanName(r)
		if err != nil {
			return nil, err
		}
		return []string{name, name + "!"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "alice!", "bob", "bob!", "carol", "carol!"}, out)
}

func TestFirstRow(t *testing.T) {
	conn, rows := threeRowConn()

	first, err := FirstRow(context.Background(), conn, NewQuery("SELECT id, name FROM t"), scanName)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "alice", *first)

	// the cursor stopped on row 1; the remaining rows were never visited
	assert.Equal(t, 1, rows.pos)
	assert.Equal(t, 1, rows.closed)
}

func TestFirstRowEmptyResult(t *testing.T) {
	conn := &stubConn{rows: newStubRows([]string{"id", "name"})}

	first, err := FirstRow(context.Background(), conn, NewQuery("SELECT id, name FROM t"), scanName)
	require.NoError(t, err)
	assert.Nil(t, first, "an empty result set yields nil, not an error")
}

func TestFoldRows(t *testing.T) {
	conn, _ := threeRowConn()

	sum, err := FoldRows(context.Background(), conn, NewQuery("SELECT id, name FROM t"), int64(0),
		func(acc int64, r Rows) (int64, error) {
			id, err := Int64Col.Index(r, 1)
			if err != nil {
				return acc, err
			}
			return acc + id, nil
		})
	require.NoError(t, err)
	assert.Equal(t, int64(6), sum)
}

func TestCursorHelpersOnExhaustedCursor(t *testing.T) {
	rows := newStubRows([]string{"id"}, []any{int64(1)})
	require.True(t, rows.Next())
	require.False(t, rows.Next())

	// every traversal of an exhausted cursor yields an empty result
	out, err := CollectRows(rows, func(r Rows) (int64, error) {
		return Int64Col.Index(r, 1)
	})
	require.NoError(t, err)
	assert.Empty(t, out)

	next, err := NextRow(rows, func(r Rows) (int64, error) {
		return Int64Col.Index(r, 1)
	})
	require.NoError(t, err)
	assert.Nil(t, next)

	acc, err := ReduceRows(rows, 10, func(acc int, _ Rows) (int, error) {
		return acc + 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 10, acc)
}

func TestEachRowSurfacesCursorError(t *testing.T) {
	rows := newStubRows([]string{"id"}, []any{int64(1)})
	rows.err = errors.New("connection reset")

	err := EachRow(rows, func(Rows) error { return nil })
	require.Error(t, err)

	var de *DriverError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "read", de.Op)
}

func TestSelectHelper(t *testing.T) {
	conn, _ := threeRowConn()

	names, err := Select(context.Background(), conn, "SELECT id, name FROM t WHERE id > ?", scanName, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, names)
	assert.Equal(t, int64(0), conn.prepared[0].binds[0].value)

	_, err = Select(context.Background(), conn, "SELECT 1", scanName, struct{}{})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
