// Package jobs provides scheduled background tasks for the marketplace.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic housekeeping the dispatch engine needs.
//
// # Available Jobs
//
// 1. OfferExpiryJob - Runs every 30 seconds to rebroadcast or expire offers whose acceptance window lapsed
// 2. SettlementRetryJob - Runs every minute to re-attempt failed, retryable payment settlements
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(sweepHandler, retryHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The expiry sweep runs well inside the five-minute offer window so lapsed
// offers are picked up promptly. Settlement retries run once a minute: the
// payment gateway is slow to recover, and hammering it helps nobody.
//
// # Error Handling
//
// - Both jobs log failures and wait for the next tick; a failed sweep is retried implicitly
// - Payment declines are terminal and are not picked up by the retry job
// - Failed job starts will stop any already running jobs
package jobs
