package database

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Pool utilization above which health reports a warning
const busyPool = 0.85

// Reels the worker still has to enrich
const pendingQuery = "SELECT count(*) FROM reel WHERE platform = 'youtube' AND content_id IS NOT NULL AND thumbnail_url IS NULL"

// Health pings the database and reports the
// pool counters and the enrichment backlog.
func (s *service) Health(ctx context.Context) map[string]any {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		log.Printf("db down: %v", err)
		return map[string]any{
			"status": "down",
			"error":  fmt.Sprintf("db down: %v", err),
		}
	}

	pool := s.db.Stat()
	stats := map[string]any{
		"status":            "up",
		"max_connections":   pool.MaxConns(),
		"open_connections":  pool.TotalConns(),
		"in_use":            pool.AcquiredConns(),
		"idle":              pool.IdleConns(),
		"constructing":      pool.ConstructingConns(),
		"new_connections":   pool.NewConnsCount(),
		"waited_acquires":   pool.EmptyAcquireCount(),
		"acquire_duration":  pool.AcquireDuration().String(),
		"idle_closed":       pool.MaxIdleDestroyCount(),
		"lifetime_closed":   pool.MaxLifetimeDestroyCount(),
		"pending_thumbnails": nil,
	}

	var pending int64
	if err := s.db.QueryRow(ctx, pendingQuery).Scan(&pending); err != nil {
		log.Printf("Failed to count the reels pending enrichment: %v", err)
	} else {
		stats["pending_thumbnails"] = pending
	}

	var warnings []string
	if limit := pool.MaxConns(); limit > 0 {
		utilization := float64(pool.AcquiredConns()) / float64(limit)
		stats["pool_utilization"] = fmt.Sprintf("%.2f", utilization*100)

		if utilization > busyPool {
			warnings = append(warnings, fmt.Sprintf("Pool highly utilized: %.2f%%", utilization*100))
		}

		if pool.TotalConns() >= limit {
			warnings = append(warnings, "Pool at max capacity")
		}
	}

	if len(warnings) > 0 {
		stats["message"] = strings.Join(warnings, "; ")
	}

	return stats
}
