package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"dinemate/internal/agent"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	sessionCleanupJob *SessionCleanupJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	sessions *agent.SessionStore,
	sessionMaxIdle time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		sessionCleanupJob: NewSessionCleanupJob(sessions, sessionMaxIdle, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.sessionCleanupJob.Start(); err != nil {
		return fmt.Errorf("failed to start session cleanup job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.sessionCleanupJob.Stop()
}
