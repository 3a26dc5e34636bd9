package jobs

import (
	"context"
	"log/slog"

	"dropmarket/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// settlementRetrySchedule runs the retry pass at the top of every minute.
const settlementRetrySchedule = "0 * * * * *"

// SettlementRetryJob re-attempts payment settlement for delivered
// deliveries whose charge failed on a retryable gateway error. Declines are
// terminal and never retried.
type SettlementRetryJob struct {
	handler commands.RetrySettlementsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewSettlementRetryJob creates the settlement retry job.
func NewSettlementRetryJob(handler commands.RetrySettlementsCommandHandler, logger *slog.Logger) *SettlementRetryJob {
	return &SettlementRetryJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "settlement_retry_job"),
	}
}

// Start schedules the retry pass.
func (j *SettlementRetryJob) Start() error {
	_, err := j.cron.AddFunc(settlementRetrySchedule, func() {
		ctx := context.Background()
		cmd := commands.NewRetrySettlementsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Settlement retry pass failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Settlement retry job started (running every minute)")
	return nil
}

// Stop stops the retry pass.
func (j *SettlementRetryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Settlement retry job stopped")
}
