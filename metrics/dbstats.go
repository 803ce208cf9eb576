package metrics

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartDBStatsJob samples pool statistics every interval until the returned
// scheduler is shut down.
func StartDBStatsJob(db *sql.DB, m *Metrics, interval time.Duration, logger *slog.Logger) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			stats := db.Stats()
			m.RecordDBStats(stats)
			logger.Debug("database pool stats",
				slog.Int("open", stats.OpenConnections),
				slog.Int("in_use", stats.InUse),
				slog.Int("idle", stats.Idle),
				slog.Int64("wait_count", stats.WaitCount),
			)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule db stats job: %w", err)
	}

	sched.Start()
	logger.Info("db stats job started", slog.Duration("interval", interval))
	return sched, nil
}
