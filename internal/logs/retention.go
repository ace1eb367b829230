package logs

// retention.go runs the background purge of old activity entries.
//
// The job is long-running and context-aware for graceful shutdown. It logs
// progress and errors but never stops the application when a purge fails.

import (
	"context"
	"log/slog"
	"time"
)

// Purger deletes entries older than a cutoff.
type Purger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionConfig holds the purge schedule.
type RetentionConfig struct {
	RetentionDays int           // Days to keep; 0 disables the job
	CheckInterval time.Duration // How often to run (default: 24h)
}

// StartRetention purges immediately, then every CheckInterval, until ctx is
// cancelled.
func StartRetention(ctx context.Context, p Purger, cfg RetentionConfig) {
	if cfg.RetentionDays <= 0 {
		slog.Info("log retention disabled")
		return
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 24 * time.Hour
	}

	slog.Info("log retention started",
		"retention_days", cfg.RetentionDays,
		"check_interval", cfg.CheckInterval,
	)

	runRetention(ctx, p, cfg.RetentionDays, time.Now)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("log retention stopped")
			return
		case <-ticker.C:
			runRetention(ctx, p, cfg.RetentionDays, time.Now)
		}
	}
}

// runRetention performs one purge cycle.
func runRetention(ctx context.Context, p Purger, days int, now func() time.Time) int64 {
	start := time.Now()
	cutoff := now().AddDate(0, 0, -days)

	purged, err := p.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		slog.Error("log purge failed", "error", err)
		return 0
	}

	slog.Info("purged old log entries",
		"entries_purged", purged,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return purged
}
