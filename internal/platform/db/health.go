package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Health reports database connectivity and pool utilization.
type Health struct {
	OK          bool   `json:"ok"`
	LatencyMS   int64  `json:"latency_ms"`
	TotalConns  int32  `json:"total_conns"`
	IdleConns   int32  `json:"idle_conns"`
	Error       string `json:"error,omitempty"`
}

// Check pings the database with a short timeout and returns pool stats.
func Check(ctx context.Context, pool *pgxpool.Pool) Health {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := pool.Ping(ctx)
	h := Health{
		OK:        err == nil,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		h.Error = err.Error()
	}
	stats := pool.Stat()
	h.TotalConns = stats.TotalConns()
	h.IdleConns = stats.IdleConns()
	return h
}
