package core

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/coregx/sqlbind/internal/logger"
)

// healthChecker pings the wrapped pool at regular intervals so dead
// connections surface before a statement trips over them.
type healthChecker struct {
	db       *sql.DB
	logger   logger.Logger
	interval time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup
	mu       sync.RWMutex
	lastErr  error
	lastPing time.Time
}

func newHealthChecker(db *sql.DB, log logger.Logger, interval time.Duration) *healthChecker {
	return &healthChecker{
		db:       db,
		logger:   log,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// start begins the ping loop in a background goroutine.
func (h *healthChecker) start() {
	h.wg.Add(1)
	go h.run()
}

func (h *healthChecker) run() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.ping()
		case <-h.stop:
			return
		}
	}
}

// ping performs a single health check with a bounded timeout.
func (h *healthChecker) ping() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := h.db.PingContext(ctx)

	h.mu.Lock()
	h.lastErr = err
	h.lastPing = time.Now()
	h.mu.Unlock()

	if err != nil {
		h.logger.Warn("database health check failed",
			"error", err,
			"interval", h.interval)
	} else {
		h.logger.Debug("database health check passed",
			"interval", h.interval)
	}
}

// stopAndWait halts the ping loop and waits for it to finish.
func (h *healthChecker) stopAndWait() {
	close(h.stop)
	h.wg.Wait()
}

// isHealthy reports whether the most recent ping succeeded.
func (h *healthChecker) isHealthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastErr == nil
}

// lastCheck returns the time of the most recent ping.
func (h *healthChecker) lastCheck() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastPing
}

// Healthy reports whether the database looked reachable at the last health
// check. Without a configured health checker it pings once, synchronously.
func (db *DB) Healthy(ctx context.Context) bool {
	if db.health != nil {
		return db.health.isHealthy()
	}
	return db.sqlDB.PingContext(ctx) == nil
}
