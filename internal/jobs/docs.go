// Package jobs provides scheduled background tasks for the ordering system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic housekeeping for the conversational ordering service.
//
// # Available Jobs
//
// 1. SessionCleanupJob - Runs every minute to drop conversation sessions
// that have been idle past the configured threshold
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(orchestrator.Sessions(), 30*time.Minute, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Cleanup runs are logged only when they actually remove sessions; an idle
// store produces no log noise. Failed job starts report the failing job.
package jobs
