package cache

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync/atomic"
)

// Mock driver for cache tests. It only needs to hand out preparable
// statements; prepared-statement counts are tracked globally so pin tests
// can observe when the cache actually closes a statement.
type mockDriver struct{}

type mockConn struct{}

type mockStmt struct {
	query string
}

// openStmts counts driver-level statements that are prepared but not yet
// closed, across all mock connections.
var openStmts atomic.Int64

func (d *mockDriver) Open(_ string) (driver.Conn, error) {
	return &mockConn{}, nil
}

func (c *mockConn) Prepare(query string) (driver.Stmt, error) {
	openStmts.Add(1)
	return &mockStmt{query: query}, nil
}

func (c *mockConn) Close() error { return nil }

func (c *mockConn) Begin() (driver.Tx, error) {
	return nil, driver.ErrSkip
}

func (s *mockStmt) Close() error {
	openStmts.Add(-1)
	return nil
}

func (s *mockStmt) NumInput() int { return 0 }

func (s *mockStmt) Exec(_ []driver.Value) (driver.Result, error) {
	return nil, driver.ErrSkip
}

func (s *mockStmt) Query(_ []driver.Value) (driver.Rows, error) {
	return nil, driver.ErrSkip
}

var driverCounter atomic.Uint64

// registerMockDriver registers a fresh mock driver instance and opens a DB
// handle on it. Each call gets its own driver name, so tests stay isolated.
func registerMockDriver() (*sql.DB, error) {
	driverName := fmt.Sprintf("cache-mock-%d", driverCounter.Add(1))
	sql.Register(driverName, &mockDriver{})
	return sql.Open(driverName, "")
}
