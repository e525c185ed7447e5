package jobs

import (
	"context"
	"log/slog"
	"time"

	"dinemate/internal/agent"

	"github.com/robfig/cron/v3"
)

// SessionCleanupJob periodically drops conversation sessions that have been
// idle longer than the configured threshold, reclaiming their history and
// cart state.
type SessionCleanupJob struct {
	sessions *agent.SessionStore
	maxIdle  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewSessionCleanupJob creates a job that purges idle conversation sessions.
func NewSessionCleanupJob(sessions *agent.SessionStore, maxIdle time.Duration, logger *slog.Logger) *SessionCleanupJob {
	return &SessionCleanupJob{
		sessions: sessions,
		maxIdle:  maxIdle,
		cron:     cron.New(),
		logger:   logger.With("component", "session_cleanup_job"),
	}
}

// Start begins the session cleanup job to run every minute.
func (j *SessionCleanupJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		removed := j.sessions.PurgeIdle(j.maxIdle)
		if removed > 0 {
			j.logger.InfoContext(context.Background(), "Purged idle sessions",
				"removed", removed,
				"remaining", j.sessions.Count(),
			)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Session cleanup job started (running every minute)")
	return nil
}

// Stop stops the session cleanup job.
func (j *SessionCleanupJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Session cleanup job stopped")
}
